package repository

import (
	"context"

	"midorisky/internal/modules/task/domain/entity"
)

// TaskRepository covers both the CRUD writes from the request path and the
// read-only slice the notification pipeline consumes. Lookups return
// (nil, nil) for absent rows.
type TaskRepository interface {
	GetTaskByID(ctx context.Context, id int64) (*entity.Task, error)
	ListAssignees(ctx context.Context, taskID int64) ([]string, error)
	GetCommentByID(ctx context.Context, id int64) (*entity.TaskComment, error)

	CreateTask(ctx context.Context, task *entity.Task, assignees []string) error
	UpdateTask(ctx context.Context, task *entity.Task) error
	ReplaceAssignees(ctx context.Context, taskID int64, assignees []string) error
	AddComment(ctx context.Context, comment *entity.TaskComment) error
}
