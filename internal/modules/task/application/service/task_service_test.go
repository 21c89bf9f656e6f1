package service

import (
	"context"
	"errors"
	"testing"

	notifyService "midorisky/internal/modules/notify/application/service"
	"midorisky/internal/modules/notify/domain/event"
	"midorisky/internal/modules/notify/infrastructure/mq"
	"midorisky/internal/modules/task/domain/entity"
	"midorisky/pkg/xerr"

	"github.com/stretchr/testify/assert"
)

type fakeTaskRepo struct {
	tasks      map[int64]*entity.Task
	created    []*entity.Task
	comments   []*entity.TaskComment
	reassigned map[int64][]string
	createErr  error
}

func (f *fakeTaskRepo) GetTaskByID(_ context.Context, id int64) (*entity.Task, error) {
	return f.tasks[id], nil
}

func (f *fakeTaskRepo) ListAssignees(context.Context, int64) ([]string, error) { return nil, nil }

func (f *fakeTaskRepo) GetCommentByID(context.Context, int64) (*entity.TaskComment, error) {
	return nil, nil
}

func (f *fakeTaskRepo) CreateTask(_ context.Context, task *entity.Task, _ []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	task.ID = int64(len(f.created) + 1)
	f.created = append(f.created, task)
	return nil
}

func (f *fakeTaskRepo) UpdateTask(context.Context, *entity.Task) error { return nil }

func (f *fakeTaskRepo) ReplaceAssignees(_ context.Context, taskID int64, assignees []string) error {
	if f.reassigned == nil {
		f.reassigned = make(map[int64][]string)
	}
	f.reassigned[taskID] = assignees
	return nil
}

func (f *fakeTaskRepo) AddComment(_ context.Context, c *entity.TaskComment) error {
	c.ID = int64(len(f.comments) + 1)
	f.comments = append(f.comments, c)
	return nil
}

type capturePublisher struct {
	published []mq.Message
}

func (c *capturePublisher) Publish(_ context.Context, msg mq.Message) (mq.PublishResult, error) {
	c.published = append(c.published, msg)
	return mq.PublishResult{}, nil
}

func (c *capturePublisher) Close() error { return nil }

func newService(repo *fakeTaskRepo) (*TaskService, *capturePublisher) {
	pub := &capturePublisher{}
	producer := notifyService.NewEventProducer(pub, "notify-events")
	return NewTaskService(repo, producer), pub
}

func lastEvent(t *testing.T, pub *capturePublisher) event.Event {
	t.Helper()
	assert.NotEmpty(t, pub.published)
	ev, err := event.Decode(pub.published[len(pub.published)-1].Value)
	assert.NoError(t, err)
	return ev
}

func TestCreateTaskEnqueuesAfterWrite(t *testing.T) {
	repo := &fakeTaskRepo{}
	svc, pub := newService(repo)

	task := &entity.Task{Title: "Seed plot 2"}
	assert.NoError(t, svc.CreateTask(context.Background(), task, []string{"alice"}))

	assert.NotZero(t, task.ID, "store-assigned id is filled before enqueue")
	ev := lastEvent(t, pub)
	assert.Equal(t, event.TypeTask, ev.Type)
	assert.Equal(t, event.ActionCreate, ev.Action)
	assert.Equal(t, task.ID, ev.ID)
}

// A failed write must not enqueue anything.
func TestCreateTaskWriteFailureNoEvent(t *testing.T) {
	repo := &fakeTaskRepo{createErr: errors.New("db down")}
	svc, pub := newService(repo)

	err := svc.CreateTask(context.Background(), &entity.Task{Title: "T"}, nil)
	assert.Error(t, err)
	assert.Empty(t, pub.published)
}

func TestUpdateTaskMissing(t *testing.T) {
	svc, pub := newService(&fakeTaskRepo{})

	err := svc.UpdateTask(context.Background(), &entity.Task{ID: 9, Title: "T"})
	assert.ErrorIs(t, err, xerr.ErrNotFound)
	assert.Empty(t, pub.published)
}

func TestAssignTaskEnqueuesAssigneeEvent(t *testing.T) {
	repo := &fakeTaskRepo{tasks: map[int64]*entity.Task{7: {ID: 7, Title: "T"}}}
	svc, pub := newService(repo)

	assert.NoError(t, svc.AssignTask(context.Background(), 7, []string{"bob", "carol"}))

	assert.Equal(t, []string{"bob", "carol"}, repo.reassigned[7])
	ev := lastEvent(t, pub)
	assert.Equal(t, event.TypeAssignee, ev.Type)
	assert.Equal(t, event.ActionAssignee, ev.Action)
	assert.Equal(t, int64(7), ev.ID)
}

// The comment event carries the comment id, not the task id.
func TestAddCommentEnqueuesCommentID(t *testing.T) {
	repo := &fakeTaskRepo{tasks: map[int64]*entity.Task{7: {ID: 7, Title: "T"}}}
	svc, pub := newService(repo)

	comment := &entity.TaskComment{TaskID: 7, Comment: "on it"}
	assert.NoError(t, svc.AddComment(context.Background(), comment))

	ev := lastEvent(t, pub)
	assert.Equal(t, event.TypeComment, ev.Type)
	assert.Equal(t, comment.ID, ev.ID)
}
