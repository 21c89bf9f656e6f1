package persistence

import (
	"context"
	"errors"

	"midorisky/internal/modules/task/domain/entity"
	"midorisky/internal/modules/task/domain/repository"

	"gorm.io/gorm"
)

type taskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func (r *taskRepositoryImpl) GetTaskByID(ctx context.Context, id int64) (*entity.Task, error) {
	var task entity.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepositoryImpl) ListAssignees(ctx context.Context, taskID int64) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).
		Model(&entity.TaskAssignee{}).
		Where("taskId = ?", taskID).
		Pluck("username", &usernames).Error
	return usernames, err
}

func (r *taskRepositoryImpl) GetCommentByID(ctx context.Context, id int64) (*entity.TaskComment, error) {
	var comment entity.TaskComment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *taskRepositoryImpl) CreateTask(ctx context.Context, task *entity.Task, assignees []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		for _, username := range assignees {
			row := &entity.TaskAssignee{TaskID: task.ID, Username: username}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *taskRepositoryImpl) UpdateTask(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"hidden":      task.Hidden,
		}).Error
}

func (r *taskRepositoryImpl) ReplaceAssignees(ctx context.Context, taskID int64, assignees []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("taskId = ?", taskID).Delete(&entity.TaskAssignee{}).Error; err != nil {
			return err
		}
		for _, username := range assignees {
			row := &entity.TaskAssignee{TaskID: taskID, Username: username}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *taskRepositoryImpl) AddComment(ctx context.Context, comment *entity.TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
