package backend

import (
	"errors"
	"fmt"

	"sergei-eats/lifecycle"
)

var (
	ErrForbidden   = errors.New("action not permitted for role")
	ErrUnknownRole = errors.New("unknown role")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleStaff, RoleDriver, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Actor is whoever asks for a transition. ID is the customer, staff member or
// driver id depending on Role.
type Actor struct {
	Role Role   `json:"actor_role"`
	ID   string `json:"actor_id"`
}

// Permits checks the role rules for moving order to target. It does not check
// the transition graph; callers run the engine for that.
//
//	customer: cancel their own pending order
//	staff:    confirm, prepare, mark ready, cancel; run pickup orders to delivered
//	driver:   accept a ready delivery, then advance only their own orders
//	admin:    anything, including refunds
func Permits(actor Actor, order lifecycle.Order, target lifecycle.Status) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleCustomer:
		if target == lifecycle.StatusCancelled && order.Status == lifecycle.StatusPending &&
			(actor.ID == "" || actor.ID == order.CustomerID) {
			return nil
		}
	case RoleStaff:
		switch target {
		case lifecycle.StatusConfirmed, lifecycle.StatusPreparing, lifecycle.StatusReady, lifecycle.StatusCancelled:
			return nil
		case lifecycle.StatusPickedUp, lifecycle.StatusDelivering, lifecycle.StatusDelivered:
			if order.Type == lifecycle.TypePickup {
				return nil
			}
		}
	case RoleDriver:
		if order.Type != lifecycle.TypeDelivery || actor.ID == "" {
			break
		}
		switch target {
		case lifecycle.StatusPickedUp, lifecycle.StatusDelivering:
			if order.Status == lifecycle.StatusReady {
				// acceptance; the engine reports an already assigned driver
				return nil
			}
			if target == lifecycle.StatusDelivering && ownsOrder(actor, order) {
				return nil
			}
		case lifecycle.StatusDelivered:
			if ownsOrder(actor, order) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s cannot move order to %s", ErrForbidden, actor.Role, target)
}

// AvailableFor lists the transitions actor may request for order, in graph
// order. Admins also see refunded when the order can be refunded.
func AvailableFor(engine *lifecycle.Engine, actor Actor, order lifecycle.Order) []lifecycle.Status {
	out := []lifecycle.Status{}
	taken := actor.Role == RoleDriver && order.Status == lifecycle.StatusReady && order.HasDriver()
	for _, next := range engine.AvailableTransitions(order) {
		if !taken && Permits(actor, order, next) == nil {
			out = append(out, next)
		}
	}
	if actor.Role == RoleAdmin && lifecycle.CanRefund(order.Status) {
		out = append(out, lifecycle.StatusRefunded)
	}
	return out
}

// Plan runs the engine for actor's request without touching the store. Driver
// requests out of ready become acceptances and admin requests for refunded
// become refunds.
func Plan(engine *lifecycle.Engine, actor Actor, order lifecycle.Order, target lifecycle.Status) (lifecycle.Order, error) {
	if err := Permits(actor, order, target); err != nil {
		return lifecycle.Order{}, err
	}
	switch {
	case target == lifecycle.StatusRefunded:
		return engine.Refund(order, "")
	case actor.Role == RoleDriver && order.Status == lifecycle.StatusReady:
		return engine.AcceptDelivery(order, actor.ID, target)
	}
	return engine.Apply(order, target)
}

func ownsOrder(actor Actor, order lifecycle.Order) bool {
	return order.DriverID != nil && *order.DriverID == actor.ID
}
