package queue

import (
	"context"
	"fmt"
	"testing"

	"midorisky/internal/modules/notify/application/service"
	"midorisky/internal/modules/notify/domain/entity"
	"midorisky/internal/modules/notify/domain/event"
	"midorisky/internal/modules/notify/infrastructure/mq"
	taskEntity "midorisky/internal/modules/task/domain/entity"

	"github.com/stretchr/testify/assert"
)

type stubTaskReader struct {
	tasks     map[int64]*taskEntity.Task
	comments  map[int64]*taskEntity.TaskComment
	assignees map[int64][]string
}

func (s *stubTaskReader) GetTaskByID(_ context.Context, id int64) (*taskEntity.Task, error) {
	return s.tasks[id], nil
}

func (s *stubTaskReader) ListAssignees(_ context.Context, taskID int64) ([]string, error) {
	return s.assignees[taskID], nil
}

func (s *stubTaskReader) GetCommentByID(_ context.Context, id int64) (*taskEntity.TaskComment, error) {
	return s.comments[id], nil
}

type stubNotificationRepo struct {
	created []*entity.Notification
}

func (s *stubNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	n.ID = int64(len(s.created) + 1)
	s.created = append(s.created, n)
	return nil
}

func (s *stubNotificationRepo) ListByUser(context.Context, string, int) ([]*entity.Notification, error) {
	return nil, nil
}
func (s *stubNotificationRepo) MarkRead(context.Context, string, int64) error { return nil }
func (s *stubNotificationRepo) MarkAllRead(context.Context, string) error     { return nil }
func (s *stubNotificationRepo) CountUnread(context.Context, string) (int64, error) {
	return 0, nil
}

type stubRegistry struct{}

func (stubRegistry) Associate(context.Context, string, string) error { return nil }
func (stubRegistry) Dissociate(context.Context, string) error        { return nil }
func (stubRegistry) LookupConnections(context.Context, string) ([]string, error) {
	return nil, nil
}

type stubPusher struct{ posted int }

func (s *stubPusher) Post(string, []byte) error          { s.posted++; return nil }
func (s *stubPusher) PostJSON(string, interface{}) error { s.posted++; return nil }

type stubDirectory struct{}

func (stubDirectory) ResolveEmails(context.Context, []string) ([]string, error) {
	return nil, nil
}

type stubMailer struct{ calls int }

func (s *stubMailer) Send([]string, string, string) error { s.calls++; return nil }

func newTestWorker(reader *stubTaskReader, repo *stubNotificationRepo) *NotifyConsumerWorker {
	materializer := service.NewMaterializer(reader, repo)
	delivery := service.NewDelivery(stubRegistry{}, &stubPusher{}, stubDirectory{}, &stubMailer{})
	return NewNotifyConsumerWorker(nil, materializer, delivery)
}

func encode(t *testing.T, ev event.Event) []byte {
	t.Helper()
	b, err := ev.Encode()
	assert.NoError(t, err)
	return b
}

func TestHandleTaskEvent(t *testing.T) {
	reader := &stubTaskReader{
		tasks:     map[int64]*taskEntity.Task{1: {ID: 1, Title: "T"}},
		assignees: map[int64][]string{1: {"alice", "bob"}},
	}
	repo := &stubNotificationRepo{}
	w := newTestWorker(reader, repo)

	err := w.Handle(context.Background(), mq.Message{
		Value: encode(t, event.Event{Type: event.TypeTask, ID: 1, Action: event.ActionUpdate}),
	})

	assert.NoError(t, err)
	assert.Len(t, repo.created, 2)
}

// Malformed payloads are acked (nil) so they are not redelivered forever.
func TestHandleMalformedPayloadDropped(t *testing.T) {
	w := newTestWorker(&stubTaskReader{}, &stubNotificationRepo{})

	assert.NoError(t, w.Handle(context.Background(), mq.Message{Value: []byte("garbage")}))
}

func TestHandleDeviceAlertAcked(t *testing.T) {
	repo := &stubNotificationRepo{}
	w := newTestWorker(&stubTaskReader{}, repo)

	err := w.Handle(context.Background(), mq.Message{
		Value: encode(t, event.Event{Type: event.TypeDevice, Count: 4}),
	})

	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

// A batch where one referenced task has been deleted: the dead event is a
// no-op and every sibling is still processed.
func TestHandleBatchWithDeletedTask(t *testing.T) {
	reader := &stubTaskReader{
		tasks: map[int64]*taskEntity.Task{
			1: {ID: 1, Title: "A"},
			2: {ID: 2, Title: "B"},
			4: {ID: 4, Title: "D"},
			5: {ID: 5, Title: "E"},
		},
		assignees: map[int64][]string{
			1: {"alice"}, 2: {"alice"}, 4: {"alice"}, 5: {"alice"},
		},
	}
	repo := &stubNotificationRepo{}
	w := newTestWorker(reader, repo)

	for _, id := range []int64{1, 2, 3, 4, 5} {
		err := w.Handle(context.Background(), mq.Message{
			Value: encode(t, event.Event{Type: event.TypeTask, ID: id, Action: event.ActionUpdate}),
		})
		assert.NoError(t, err, fmt.Sprintf("task %d", id))
	}

	assert.Len(t, repo.created, 4)
}

func TestHandleCommentEvent(t *testing.T) {
	reader := &stubTaskReader{
		tasks:     map[int64]*taskEntity.Task{1: {ID: 1, Title: "T"}},
		comments:  map[int64]*taskEntity.TaskComment{9: {ID: 9, TaskID: 1, Comment: "hi"}},
		assignees: map[int64][]string{1: {"alice"}},
	}
	repo := &stubNotificationRepo{}
	w := newTestWorker(reader, repo)

	err := w.Handle(context.Background(), mq.Message{
		Value: encode(t, event.Event{Type: event.TypeComment, ID: 9}),
	})

	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, "T - New Task Comment", repo.created[0].Title)
}
