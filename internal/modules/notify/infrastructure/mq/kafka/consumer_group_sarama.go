package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"midorisky/internal/modules/notify/infrastructure/mq"
	"midorisky/pkg/zlog"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type ConsumerConfig struct {
	Brokers   []string
	GroupID   string
	Topics    []string
	ClientID  string
	BatchSize int
}

type saramaConsumer struct {
	cg        sarama.ConsumerGroup
	topics    []string
	batchSize int
}

func NewConsumer(cfg ConsumerConfig) (mq.Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}
	if strings.TrimSpace(cfg.GroupID) == "" {
		return nil, errors.New("kafka consumer group id is empty")
	}
	if len(cfg.Topics) == 0 {
		return nil, errors.New("kafka topics is empty")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	sc.Consumer.Group.Rebalance.Timeout = 30 * time.Second
	sc.Consumer.Group.Session.Timeout = 30 * time.Second
	sc.ClientID = strings.TrimSpace(cfg.ClientID)

	cg, err := sarama.NewConsumerGroup(cfg.Brokers, strings.TrimSpace(cfg.GroupID), sc)
	if err != nil {
		return nil, err
	}
	return &saramaConsumer{cg: cg, topics: cfg.Topics, batchSize: cfg.BatchSize}, nil
}

func (c *saramaConsumer) Run(ctx context.Context, handler mq.Handler) error {
	if handler == nil {
		return errors.New("handler is nil")
	}
	h := &consumerGroupHandler{h: handler, batchSize: c.batchSize}

	for {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		err := c.cg.Consume(ctx, c.topics, h)
		if err != nil {
			return err
		}
	}
}

func (c *saramaConsumer) Close() error {
	if c == nil {
		return nil
	}
	return c.cg.Close()
}

const batchFlushInterval = 2 * time.Second

type consumerGroupHandler struct {
	h         mq.Handler
	batchSize int
}

func (consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim drains up to batchSize messages (or whatever arrived within
// the flush window) and hands each to the handler behind its own failure
// boundary. Later siblings of a failed message are still processed, but
// marking stops at the failure so its offset is redelivered; duplicates on
// the later siblings are tolerated.
func (h *consumerGroupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	batch := make([]*sarama.ConsumerMessage, 0, h.batchSize)
	timer := time.NewTimer(batchFlushInterval)
	defer timer.Stop()

	for {
		select {
		case m, ok := <-claim.Messages():
			if !ok {
				h.flush(sess, batch)
				return nil
			}
			batch = append(batch, m)
			if len(batch) >= h.batchSize {
				h.flush(sess, batch)
				batch = batch[:0]
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(batchFlushInterval)
			}
		case <-timer.C:
			h.flush(sess, batch)
			batch = batch[:0]
			timer.Reset(batchFlushInterval)
		case <-sess.Context().Done():
			h.flush(sess, batch)
			return nil
		}
	}
}

// flush hands each buffered message to the handler in order. Offsets commit
// as the highest mark per partition, so marking anything after a failure
// would skip the failed offset permanently; instead only the contiguous
// prefix of successes is marked.
func (h *consumerGroupHandler) flush(sess sarama.ConsumerGroupSession, batch []*sarama.ConsumerMessage) {
	markable := true
	for _, m := range batch {
		msg := mq.Message{
			Topic: m.Topic,
			Key:   m.Key,
			Value: m.Value,
		}
		if len(m.Headers) > 0 {
			msg.Headers = make(map[string]string, len(m.Headers))
			for _, hdr := range m.Headers {
				if hdr == nil || len(hdr.Key) == 0 {
					continue
				}
				msg.Headers[string(hdr.Key)] = string(hdr.Value)
			}
		}

		if err := h.safeHandle(sess.Context(), msg); err != nil {
			markable = false
			zlog.Warn("notify consumer message failed",
				zap.String("topic", m.Topic),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
			continue
		}
		if markable {
			sess.MarkMessage(m, "")
		}
	}
}

func (h *consumerGroupHandler) safeHandle(ctx context.Context, msg mq.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler: %v", r)
		}
	}()
	return h.h.Handle(ctx, msg)
}
