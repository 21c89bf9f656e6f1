package mq

import "context"

type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type PublishResult struct {
	Partition int32
	Offset    int64
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) (PublishResult, error)
	Close() error
}

// Handler processes a single message. A nil return acknowledges the
// message; an error leaves it unacked for redelivery. Handlers must treat
// a missing referenced entity as a no-op, not an error.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// Consumer drains messages in batches of at most the configured size and
// invokes the handler once per message, isolating failures so one bad
// message never blocks its siblings.
type Consumer interface {
	Run(ctx context.Context, handler Handler) error
	Close() error
}
