package service

import (
	"context"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"
	"sergei-eats/order-svc/internal/storage"
	"sergei-eats/pricing"
)

type OrderServiceInterface interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (pricing.Quote, error)
	ValidateDiscount(ctx context.Context, code string, subtotal float64) (*pricing.Discount, error)
	Place(ctx context.Context, req domain.PlaceOrderRequest) (lifecycle.Order, error)
	Get(ctx context.Context, id string) (lifecycle.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]lifecycle.Order, error)
	Available(ctx context.Context) ([]lifecycle.Order, error)
	Transitions(ctx context.Context, id string, actor backend.Actor) ([]lifecycle.Status, error)
	Transition(ctx context.Context, id string, target lifecycle.Status, actor backend.Actor, reason string) (lifecycle.Order, error)
	AcceptDelivery(ctx context.Context, id, driverID string, target lifecycle.Status) (lifecycle.Order, error)
	CompleteDelivery(ctx context.Context, id, driverID string) (lifecycle.Order, error)
	Cancel(ctx context.Context, id string, actor backend.Actor, reason string) (lifecycle.Order, error)
	Refund(ctx context.Context, id, reason string) (lifecycle.Order, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
	QRLink(id string) string
}

// OrderRepository is the authoritative order store. Update is a compare-and-swap:
// it fails with domain.ErrVersionConflict unless the stored version equals
// expectedVersion.
type OrderRepository interface {
	Create(ctx context.Context, order lifecycle.Order) error
	Get(ctx context.Context, id string) (lifecycle.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]lifecycle.Order, error)
	Update(ctx context.Context, order lifecycle.Order, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	NextOrderNumber(ctx context.Context, year int) (string, error)
	SaveQRCode(ctx context.Context, id string, qr []byte) error
	GetQRCode(ctx context.Context, id string) ([]byte, error)
}

// OrderCache holds read snapshots. Get returns nil on a miss.
type OrderCache interface {
	Get(ctx context.Context, id string) (*lifecycle.Order, error)
	Set(ctx context.Context, order lifecycle.Order) error
	Delete(ctx context.Context, id string) error
}

type OrderPublisher interface {
	Publish(ctx context.Context, event backend.OrderEvent) error
}

var (
	_ OrderServiceInterface = (*OrderService)(nil)
	_ backend.Gateway       = (*LocalGateway)(nil)
	_ OrderRepository       = (*storage.MemoryStore)(nil)
	_ OrderRepository       = (*storage.PostgresStore)(nil)
	_ OrderCache            = (*storage.RedisCache)(nil)
	_ OrderPublisher        = (*storage.KafkaPublisher)(nil)
	_ OrderPublisher        = (*storage.MemoryBus)(nil)
	_ backend.Subscriber    = (*storage.MemoryBus)(nil)
)
