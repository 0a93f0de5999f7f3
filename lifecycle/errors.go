package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrDriverAlreadyAssigned = errors.New("order no longer available")
	ErrDriverRequired        = errors.New("status requires an assigned driver")
	ErrUnknownStatus         = errors.New("unknown order status")
)

// TransitionError names the rejected edge.
type TransitionError struct {
	OrderID string
	From    Status
	To      Status
	Err     error
}

func (e *TransitionError) Error() string {
	if e.OrderID == "" {
		return fmt.Sprintf("cannot transition from %s to %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("order %s: cannot transition from %s to %s: %v", e.OrderID, e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

func rejected(o Order, to Status, err error) error {
	return &TransitionError{OrderID: o.ID, From: o.Status, To: to, Err: err}
}
