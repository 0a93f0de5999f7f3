package service

import (
	"context"

	"sergei-eats/backend"

	"go.uber.org/zap"
)

type Consumer struct {
	Updates backend.Subscriber
	Store   StoreInterface
	Logger  *zap.Logger
}

func NewConsumer(updates backend.Subscriber, store StoreInterface, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{Updates: updates, Store: store, Logger: logger}
}

// Start consumes order updates until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger().Info("starting order update consumer")
	return c.Updates.Subscribe(ctx, func(event backend.OrderEvent) {
		c.Process(ctx, event)
	})
}

func (c *Consumer) Process(ctx context.Context, event backend.OrderEvent) {
	if event.Type != backend.EventOrderPlaced && event.Type != backend.EventOrderUpdated {
		return
	}
	logger := c.logger().With(
		zap.String("order_id", event.Order.ID),
		zap.String("status", string(event.Order.Status)),
		zap.Int64("version", event.Order.Version),
	)

	applied, err := c.Store.Apply(ctx, event.Order)
	if err != nil {
		logger.Error("failed to store order snapshot", zap.Error(err))
		return
	}
	if !applied {
		logger.Debug("stale order update skipped")
		return
	}
	logger.Debug("order snapshot stored", zap.String("event_type", string(event.Type)))
}

func (c *Consumer) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
