package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

const (
	defaultRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 30 * time.Second
)

// KafkaSubscriber reads order events from the order updates topic.
type KafkaSubscriber struct {
	reader     MessageReader
	logger     *zap.Logger
	retryDelay time.Duration
}

var _ Subscriber = (*KafkaSubscriber)(nil)

func NewKafkaSubscriber(reader MessageReader, logger *zap.Logger) *KafkaSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaSubscriber{reader: reader, logger: logger, retryDelay: defaultRetryDelay}
}

// WithRetryDelay sets the pause after a failed read. It doubles on every
// further failure, up to 30s, and resets once a read succeeds.
func (s *KafkaSubscriber) WithRetryDelay(d time.Duration) *KafkaSubscriber {
	if d > 0 {
		s.retryDelay = d
	}
	return s
}

// Subscribe blocks until ctx is done. Malformed messages are logged and skipped.
func (s *KafkaSubscriber) Subscribe(ctx context.Context, handler func(OrderEvent)) error {
	delay := s.retryDelay
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Warn("failed to read order update", zap.Duration("retry_in", delay), zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			if delay *= 2; delay > maxRetryDelay {
				delay = maxRetryDelay
			}
			continue
		}
		delay = s.retryDelay

		var event OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			s.logger.Warn("skipping malformed order update",
				zap.ByteString("key", msg.Key), zap.Error(err))
			continue
		}
		if event.Order.ID == "" {
			continue
		}
		handler(event)
	}
}
