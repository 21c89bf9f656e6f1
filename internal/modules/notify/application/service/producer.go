package service

import (
	"context"
	"strconv"

	"midorisky/internal/modules/notify/domain/event"
	"midorisky/internal/modules/notify/infrastructure/mq"
)

// EventProducer hands domain events to the durable queue. Enqueue success
// only guarantees the message is queued; it says nothing about delivery.
// The caller's domain write has already committed by the time this runs, so
// a queue failure is surfaced as a retryable error without any rollback.
type EventProducer struct {
	pub   mq.Publisher
	topic string
}

func NewEventProducer(pub mq.Publisher, topic string) *EventProducer {
	return &EventProducer{pub: pub, topic: topic}
}

func (p *EventProducer) Enqueue(ctx context.Context, t event.Type, id int64, action event.Action) error {
	return p.publish(ctx, event.Event{Type: t, ID: id, Action: action})
}

func (p *EventProducer) EnqueueDeviceAlert(ctx context.Context, count int) error {
	return p.publish(ctx, event.Event{Type: event.TypeDevice, Count: count})
}

func (p *EventProducer) publish(ctx context.Context, ev event.Event) error {
	body, err := ev.Encode()
	if err != nil {
		return err
	}

	// Key by entity id so events for one task stay ordered per partition.
	key := []byte(string(ev.Type))
	if ev.ID > 0 {
		key = []byte(string(ev.Type) + "-" + strconv.FormatInt(ev.ID, 10))
	}

	_, err = p.pub.Publish(ctx, mq.Message{
		Topic: p.topic,
		Key:   key,
		Value: body,
		Headers: map[string]string{
			"event_type": string(ev.Type),
		},
	})
	return err
}
