package service

import (
	"context"
	"errors"

	"midorisky/internal/modules/notify/domain/entity"
	"midorisky/internal/modules/notify/domain/event"
	"midorisky/internal/modules/notify/domain/repository"
	taskEntity "midorisky/internal/modules/task/domain/entity"
	"midorisky/pkg/zlog"

	"go.uber.org/zap"
)

// TaskReader is the slice of the task store the pipeline needs. Absent
// rows come back as (nil, nil): the referenced entity may have been deleted
// between enqueue and consume, which is a no-op, not an error.
type TaskReader interface {
	GetTaskByID(ctx context.Context, id int64) (*taskEntity.Task, error)
	ListAssignees(ctx context.Context, taskID int64) ([]string, error)
	GetCommentByID(ctx context.Context, id int64) (*taskEntity.TaskComment, error)
}

// FanoutBatch is everything Delivery needs for one consumed event: the
// persisted per-subscriber rows plus the event-level email content.
type FanoutBatch struct {
	Subscribers   []string
	Notifications []*entity.Notification
	EmailSubject  string
	EmailBody     string
	SendEmail     bool
}

type Materializer struct {
	tasks TaskReader
	repo  repository.NotificationRepository
}

func NewMaterializer(tasks TaskReader, repo repository.NotificationRepository) *Materializer {
	return &Materializer{tasks: tasks, repo: repo}
}

// MaterializeTaskChange resolves the task's assignee set and persists one
// notification row per assignee. Returns (nil, nil) when the task is gone.
func (m *Materializer) MaterializeTaskChange(ctx context.Context, ev event.Event) (*FanoutBatch, error) {
	task, err := m.tasks.GetTaskByID(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	content, ok := RenderContent(ev.Action, task.Title)
	if !ok {
		return nil, errors.New("no content for action: " + string(ev.Action))
	}

	assignees, err := m.tasks.ListAssignees(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	batch := &FanoutBatch{
		Subscribers:  assignees,
		EmailSubject: content.Title,
		EmailBody:    content.Body,
		SendEmail:    true,
	}
	m.insertAll(ctx, batch, content, TaskURL(task.ID))
	return batch, nil
}

// MaterializeComment resolves the comment's parent task and notifies every
// assignee of that task. The comment text lands in the body verbatim.
func (m *Materializer) MaterializeComment(ctx context.Context, ev event.Event) (*FanoutBatch, error) {
	comment, err := m.tasks.GetCommentByID(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, nil
	}

	task, err := m.tasks.GetTaskByID(ctx, comment.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	assignees, err := m.tasks.ListAssignees(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	content := RenderCommentContent(task.Title, comment.Comment)
	batch := &FanoutBatch{Subscribers: assignees}
	m.insertAll(ctx, batch, content, TaskURL(task.ID))
	return batch, nil
}

func (m *Materializer) insertAll(ctx context.Context, batch *FanoutBatch, content Content, url string) {
	for _, username := range batch.Subscribers {
		n := &entity.Notification{
			Username:  username,
			Title:     content.Title,
			Subtitle:  content.Body,
			ActionURL: url,
			Action:    "View",
		}
		if err := m.repo.Create(ctx, n); err != nil {
			// One subscriber's failed insert must not starve the rest.
			zlog.Warn("notification insert failed",
				zap.String("username", username),
				zap.Error(err),
			)
			continue
		}
		batch.Notifications = append(batch.Notifications, n)
	}
}
