package service

import (
	"context"
	"errors"
	"testing"

	"midorisky/internal/modules/notify/domain/entity"
	"midorisky/internal/modules/notify/domain/event"
	taskEntity "midorisky/internal/modules/task/domain/entity"

	"github.com/stretchr/testify/assert"
)

type fakeTaskReader struct {
	tasks     map[int64]*taskEntity.Task
	comments  map[int64]*taskEntity.TaskComment
	assignees map[int64][]string
}

func (f *fakeTaskReader) GetTaskByID(_ context.Context, id int64) (*taskEntity.Task, error) {
	return f.tasks[id], nil
}

func (f *fakeTaskReader) ListAssignees(_ context.Context, taskID int64) ([]string, error) {
	return f.assignees[taskID], nil
}

func (f *fakeTaskReader) GetCommentByID(_ context.Context, id int64) (*taskEntity.TaskComment, error) {
	return f.comments[id], nil
}

type fakeNotificationRepo struct {
	created []*entity.Notification
	failFor map[string]bool
	nextID  int64
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if f.failFor[n.Username] {
		return errors.New("insert failed")
	}
	f.nextID++
	n.ID = f.nextID
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(context.Context, string, int) ([]*entity.Notification, error) {
	return nil, nil
}
func (f *fakeNotificationRepo) MarkRead(context.Context, string, int64) error { return nil }
func (f *fakeNotificationRepo) MarkAllRead(context.Context, string) error     { return nil }
func (f *fakeNotificationRepo) CountUnread(context.Context, string) (int64, error) {
	return 0, nil
}

func TestMaterializeTaskChangeFanout(t *testing.T) {
	reader := &fakeTaskReader{
		tasks:     map[int64]*taskEntity.Task{10: {ID: 10, Title: "Fertilize plot 3"}},
		assignees: map[int64][]string{10: {"alice", "bob", "carol"}},
	}
	repo := &fakeNotificationRepo{}
	m := NewMaterializer(reader, repo)

	batch, err := m.MaterializeTaskChange(context.Background(), event.Event{
		Type: event.TypeTask, ID: 10, Action: event.ActionUpdate,
	})

	assert.NoError(t, err)
	assert.NotNil(t, batch)
	assert.Equal(t, []string{"alice", "bob", "carol"}, batch.Subscribers)
	assert.Len(t, batch.Notifications, 3)
	assert.True(t, batch.SendEmail)
	assert.Equal(t, "Task Updated", batch.EmailSubject)

	for i, n := range batch.Notifications {
		assert.Equal(t, batch.Subscribers[i], n.Username)
		assert.Equal(t, "Task Updated", n.Title)
		assert.Equal(t, "/staff/tasks?task=10", n.ActionURL)
		assert.Equal(t, "View", n.Action)
		assert.NotZero(t, n.ID)
	}
}

// A task deleted between enqueue and consume is a no-op, not an error.
func TestMaterializeTaskChangeAbsentTask(t *testing.T) {
	m := NewMaterializer(&fakeTaskReader{}, &fakeNotificationRepo{})

	batch, err := m.MaterializeTaskChange(context.Background(), event.Event{
		Type: event.TypeTask, ID: 99, Action: event.ActionUpdate,
	})

	assert.NoError(t, err)
	assert.Nil(t, batch)
}

func TestMaterializeTaskChangeNoAssignees(t *testing.T) {
	reader := &fakeTaskReader{
		tasks: map[int64]*taskEntity.Task{10: {ID: 10, Title: "Lonely task"}},
	}
	repo := &fakeNotificationRepo{}
	m := NewMaterializer(reader, repo)

	batch, err := m.MaterializeTaskChange(context.Background(), event.Event{
		Type: event.TypeTask, ID: 10, Action: event.ActionCreate,
	})

	assert.NoError(t, err)
	assert.NotNil(t, batch)
	assert.Empty(t, batch.Subscribers)
	assert.Empty(t, batch.Notifications)
}

// One subscriber's failed insert must not starve the remaining subscribers.
func TestMaterializeTaskChangePartialInsertFailure(t *testing.T) {
	reader := &fakeTaskReader{
		tasks:     map[int64]*taskEntity.Task{10: {ID: 10, Title: "T"}},
		assignees: map[int64][]string{10: {"alice", "bob", "carol"}},
	}
	repo := &fakeNotificationRepo{failFor: map[string]bool{"bob": true}}
	m := NewMaterializer(reader, repo)

	batch, err := m.MaterializeTaskChange(context.Background(), event.Event{
		Type: event.TypeTask, ID: 10, Action: event.ActionUpdate,
	})

	assert.NoError(t, err)
	assert.Len(t, batch.Notifications, 2)
	assert.Equal(t, "alice", batch.Notifications[0].Username)
	assert.Equal(t, "carol", batch.Notifications[1].Username)
}

func TestMaterializeComment(t *testing.T) {
	reader := &fakeTaskReader{
		tasks:     map[int64]*taskEntity.Task{10: {ID: 10, Title: "Plot survey"}},
		comments:  map[int64]*taskEntity.TaskComment{5: {ID: 5, TaskID: 10, Comment: "Done by noon"}},
		assignees: map[int64][]string{10: {"alice", "bob"}},
	}
	repo := &fakeNotificationRepo{}
	m := NewMaterializer(reader, repo)

	batch, err := m.MaterializeComment(context.Background(), event.Event{
		Type: event.TypeComment, ID: 5,
	})

	assert.NoError(t, err)
	assert.NotNil(t, batch)
	assert.False(t, batch.SendEmail)
	assert.Len(t, batch.Notifications, 2)
	assert.Equal(t, "Plot survey - New Task Comment", batch.Notifications[0].Title)
	assert.Equal(t, "Done by noon", batch.Notifications[0].Subtitle)
	assert.Equal(t, "/staff/tasks?task=10", batch.Notifications[0].ActionURL)
}

func TestMaterializeCommentAbsent(t *testing.T) {
	m := NewMaterializer(&fakeTaskReader{}, &fakeNotificationRepo{})

	batch, err := m.MaterializeComment(context.Background(), event.Event{
		Type: event.TypeComment, ID: 5,
	})

	assert.NoError(t, err)
	assert.Nil(t, batch)
}

// Comment whose parent task has been deleted is also a no-op.
func TestMaterializeCommentOrphaned(t *testing.T) {
	reader := &fakeTaskReader{
		comments: map[int64]*taskEntity.TaskComment{5: {ID: 5, TaskID: 10, Comment: "x"}},
	}
	m := NewMaterializer(reader, &fakeNotificationRepo{})

	batch, err := m.MaterializeComment(context.Background(), event.Event{
		Type: event.TypeComment, ID: 5,
	})

	assert.NoError(t, err)
	assert.Nil(t, batch)
}
