package queue

import (
	"context"
	"errors"

	"midorisky/internal/modules/notify/application/service"
	"midorisky/internal/modules/notify/domain/event"
	"midorisky/internal/modules/notify/infrastructure/mq"
	"midorisky/pkg/zlog"

	"go.uber.org/zap"
)

// NotifyConsumerWorker drains the notification topic and routes each event
// to its pipeline path. Returning nil acks the message; malformed payloads
// are dropped rather than redelivered forever.
type NotifyConsumerWorker struct {
	consumer     mq.Consumer
	materializer *service.Materializer
	delivery     *service.Delivery
}

func NewNotifyConsumerWorker(consumer mq.Consumer, materializer *service.Materializer, delivery *service.Delivery) *NotifyConsumerWorker {
	return &NotifyConsumerWorker{
		consumer:     consumer,
		materializer: materializer,
		delivery:     delivery,
	}
}

func (w *NotifyConsumerWorker) Run(ctx context.Context) error {
	if w == nil || w.consumer == nil {
		return errors.New("consumer is nil")
	}
	if w.materializer == nil || w.delivery == nil {
		return errors.New("pipeline is nil")
	}
	return w.consumer.Run(ctx, w)
}

func (w *NotifyConsumerWorker) Handle(ctx context.Context, msg mq.Message) error {
	ev, err := event.Decode(msg.Value)
	if err != nil {
		zlog.Warn("notify consumer dropped malformed event",
			zap.String("topic", msg.Topic),
			zap.Error(err),
		)
		return nil
	}

	switch ev.Type {
	case event.TypeTask, event.TypeAssignee:
		batch, err := w.materializer.MaterializeTaskChange(ctx, ev)
		if err != nil {
			return err
		}
		if batch == nil {
			return nil
		}
		return w.delivery.Deliver(ctx, batch)

	case event.TypeComment:
		batch, err := w.materializer.MaterializeComment(ctx, ev)
		if err != nil {
			return err
		}
		if batch == nil {
			return nil
		}
		return w.delivery.Deliver(ctx, batch)

	case event.TypeDevice:
		// Device alerts are informational; consumed and logged, no fan-out.
		zlog.Info("device alert consumed", zap.Int("count", ev.Count))
		return nil
	}

	zlog.Warn("notify consumer dropped unknown event type", zap.String("type", string(ev.Type)))
	return nil
}
