package lifecycle

import (
	"fmt"
	"strings"
	"time"
)

// Engine validates and applies status transitions. It holds no order state and
// never mutates its inputs, so it is safe for concurrent use; callers serialize
// mutations of a single order themselves.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an Engine stamping records with now. A nil now uses time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// AvailableTransitions returns the statuses order may legally move to next.
// Terminal statuses yield an empty slice.
func (e *Engine) AvailableTransitions(order Order) []Status {
	return Next(order.Status)
}

func (e *Engine) CanTransition(order Order, target Status) bool {
	return CanTransition(order.Status, target)
}

// Apply returns a copy of order moved to target. On failure the returned error is
// a *TransitionError and order is left untouched.
func (e *Engine) Apply(order Order, target Status) (Order, error) {
	if !CanTransition(order.Status, target) {
		return Order{}, rejected(order, target, ErrInvalidTransition)
	}
	if order.Type == TypeDelivery && driverStatuses[target] && !order.HasDriver() {
		return Order{}, rejected(order, target, ErrDriverRequired)
	}
	return e.advance(order, target), nil
}

// AcceptDelivery assigns driverID to a ready order and moves it to target, which
// must be picked_up or delivering. An order that already carries a driver is
// rejected with ErrDriverAlreadyAssigned.
func (e *Engine) AcceptDelivery(order Order, driverID string, target Status) (Order, error) {
	if target != StatusPickedUp && target != StatusDelivering {
		return Order{}, rejected(order, target, ErrInvalidTransition)
	}
	if order.HasDriver() {
		return Order{}, rejected(order, target, ErrDriverAlreadyAssigned)
	}
	if strings.TrimSpace(driverID) == "" {
		return Order{}, rejected(order, target, ErrDriverRequired)
	}
	if order.Status != StatusReady {
		return Order{}, rejected(order, target, ErrInvalidTransition)
	}
	next := e.advance(order, target)
	next.DriverID = &driverID
	return next, nil
}

// Cancel moves order to cancelled and records reason when one is given.
func (e *Engine) Cancel(order Order, reason string) (Order, error) {
	next, err := e.Apply(order, StatusCancelled)
	if err != nil {
		return Order{}, err
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		next.CancellationReason = &reason
	}
	return next, nil
}

// Refund is the out-of-band exit for orders past the cancellation point.
func (e *Engine) Refund(order Order, reason string) (Order, error) {
	if !CanRefund(order.Status) {
		return Order{}, rejected(order, StatusRefunded, fmt.Errorf("%w: refund not allowed", ErrInvalidTransition))
	}
	next := e.advance(order, StatusRefunded)
	if next.PaymentStatus == PaymentPaid {
		next.PaymentStatus = PaymentRefunded
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		next.CancellationReason = &reason
	}
	return next, nil
}

func (e *Engine) advance(order Order, target Status) Order {
	now := e.now()
	next := order.Clone()
	next.Status = target
	next.UpdatedAt = now
	next.Version = order.Version + 1
	if target == StatusDelivered {
		next.ActualDeliveryAt = &now
	}
	return next
}
