package kafka

import (
	"context"
	"errors"
	"testing"

	"midorisky/internal/modules/notify/infrastructure/mq"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
)

type stubSession struct {
	marked []int64
}

func (s *stubSession) Claims() map[string][]int32              { return nil }
func (s *stubSession) MemberID() string                        { return "test" }
func (s *stubSession) GenerationID() int32                     { return 1 }
func (s *stubSession) MarkOffset(string, int32, int64, string) {}
func (s *stubSession) Commit()                                 {}
func (s *stubSession) ResetOffset(string, int32, int64, string) {
}

func (s *stubSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

func (s *stubSession) Context() context.Context { return context.Background() }

type valueHandler struct {
	handled []string
	failOn  string
	panicOn string
}

func (h *valueHandler) Handle(_ context.Context, msg mq.Message) error {
	v := string(msg.Value)
	h.handled = append(h.handled, v)
	if v == h.panicOn {
		panic("handler blew up")
	}
	if v == h.failOn {
		return errors.New("handler failed")
	}
	return nil
}

func makeBatch(values ...string) []*sarama.ConsumerMessage {
	batch := make([]*sarama.ConsumerMessage, 0, len(values))
	for i, v := range values {
		batch = append(batch, &sarama.ConsumerMessage{
			Topic:  "notify-events",
			Offset: int64(i + 1),
			Value:  []byte(v),
		})
	}
	return batch
}

func TestFlushMarksAllOnSuccess(t *testing.T) {
	sess := &stubSession{}
	handler := &valueHandler{}
	h := &consumerGroupHandler{h: handler, batchSize: 5}

	h.flush(sess, makeBatch("a", "b", "c"))

	assert.Equal(t, []string{"a", "b", "c"}, handler.handled)
	assert.Equal(t, []int64{1, 2, 3}, sess.marked)
}

// Offsets commit as the highest mark per partition, so a failure must stop
// marking: later siblings are processed but left unacked for redelivery.
func TestFlushStopsMarkingAfterFailure(t *testing.T) {
	sess := &stubSession{}
	handler := &valueHandler{failOn: "c"}
	h := &consumerGroupHandler{h: handler, batchSize: 5}

	h.flush(sess, makeBatch("a", "b", "c", "d", "e"))

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, handler.handled,
		"one bad message never blocks its siblings")
	assert.Equal(t, []int64{1, 2}, sess.marked,
		"nothing at or past the failed offset may be marked")
}

func TestFlushFailureOnFirstMessageMarksNothing(t *testing.T) {
	sess := &stubSession{}
	handler := &valueHandler{failOn: "a"}
	h := &consumerGroupHandler{h: handler, batchSize: 5}

	h.flush(sess, makeBatch("a", "b", "c"))

	assert.Empty(t, sess.marked)
}

// A panicking handler counts as a failure, not a crash.
func TestFlushPanicIsolated(t *testing.T) {
	sess := &stubSession{}
	handler := &valueHandler{panicOn: "b"}
	h := &consumerGroupHandler{h: handler, batchSize: 5}

	h.flush(sess, makeBatch("a", "b", "c"))

	assert.Equal(t, []string{"a", "b", "c"}, handler.handled)
	assert.Equal(t, []int64{1}, sess.marked)
}
