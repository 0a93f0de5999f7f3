package backend

import (
	"time"

	"sergei-eats/lifecycle"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOrderPlaced  EventType = "order_placed"
	EventOrderUpdated EventType = "order_updated"
)

// OrderEvent is pushed on the order updates topic after every accepted
// mutation. Order is the full authoritative record.
type OrderEvent struct {
	ID             string           `json:"event_id"`
	Type           EventType        `json:"type"`
	Order          lifecycle.Order  `json:"order"`
	PreviousStatus lifecycle.Status `json:"previous_status,omitempty"`
	Actor          *Actor           `json:"actor,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

func NewOrderEvent(eventType EventType, order lifecycle.Order, previous lifecycle.Status, actor *Actor, now time.Time) OrderEvent {
	return OrderEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		Order:          order,
		PreviousStatus: previous,
		Actor:          actor,
		Timestamp:      now,
	}
}

// Newer reports whether a should replace b as the latest known record.
func Newer(a, b lifecycle.Order) bool {
	if a.Version != b.Version {
		return a.Version > b.Version
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}
