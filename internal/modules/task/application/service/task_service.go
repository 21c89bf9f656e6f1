package service

import (
	"context"

	notifyService "midorisky/internal/modules/notify/application/service"
	"midorisky/internal/modules/notify/domain/event"
	"midorisky/internal/modules/task/domain/entity"
	"midorisky/internal/modules/task/domain/repository"
	"midorisky/pkg/xerr"
)

// TaskService performs the domain write first and enqueues the
// notification event after. The two are not atomic: a queue failure is
// returned as retryable, but the committed write stays committed.
type TaskService struct {
	repo     repository.TaskRepository
	producer *notifyService.EventProducer
}

func NewTaskService(repo repository.TaskRepository, producer *notifyService.EventProducer) *TaskService {
	return &TaskService{repo: repo, producer: producer}
}

func (s *TaskService) CreateTask(ctx context.Context, task *entity.Task, assignees []string) error {
	if err := s.repo.CreateTask(ctx, task, assignees); err != nil {
		return err
	}
	return s.producer.Enqueue(ctx, event.TypeTask, task.ID, event.ActionCreate)
}

func (s *TaskService) UpdateTask(ctx context.Context, task *entity.Task) error {
	existing, err := s.repo.GetTaskByID(ctx, task.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return xerr.ErrNotFound
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return err
	}
	return s.producer.Enqueue(ctx, event.TypeTask, task.ID, event.ActionUpdate)
}

func (s *TaskService) AssignTask(ctx context.Context, taskID int64, assignees []string) error {
	existing, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if existing == nil {
		return xerr.ErrNotFound
	}
	if err := s.repo.ReplaceAssignees(ctx, taskID, assignees); err != nil {
		return err
	}
	return s.producer.Enqueue(ctx, event.TypeAssignee, taskID, event.ActionAssignee)
}

func (s *TaskService) AddComment(ctx context.Context, comment *entity.TaskComment) error {
	existing, err := s.repo.GetTaskByID(ctx, comment.TaskID)
	if err != nil {
		return err
	}
	if existing == nil {
		return xerr.ErrNotFound
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return err
	}
	return s.producer.Enqueue(ctx, event.TypeComment, comment.ID, event.ActionComment)
}
