package service

import (
	"context"
	"errors"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
)

// LocalGateway serves backend.Gateway in-process, for mock mode and for
// presentation code embedded in the same binary.
type LocalGateway struct {
	orders  *OrderService
	updates backend.Subscriber
}

func NewLocalGateway(orders *OrderService, updates backend.Subscriber) *LocalGateway {
	return &LocalGateway{orders: orders, updates: updates}
}

func (g *LocalGateway) FetchOrder(ctx context.Context, id string) (lifecycle.Order, error) {
	return g.orders.Get(ctx, id)
}

func (g *LocalGateway) SubmitTransition(ctx context.Context, id string, target lifecycle.Status, actor backend.Actor) (lifecycle.Order, error) {
	return g.orders.Transition(ctx, id, target, actor, "")
}

func (g *LocalGateway) SubscribeOrderUpdates(ctx context.Context, handler func(lifecycle.Order)) error {
	if g.updates == nil {
		return errors.New("no order update subscriber configured")
	}
	return g.updates.Subscribe(ctx, func(e backend.OrderEvent) {
		handler(e.Order)
	})
}
