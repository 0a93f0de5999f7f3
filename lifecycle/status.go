package lifecycle

import "fmt"

// Status is the lifecycle stage of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusPickedUp   Status = "picked_up"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// statuses lists every status in lifecycle order.
var statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusPickedUp,
	StatusDelivering,
	StatusDelivered,
	StatusCancelled,
	StatusRefunded,
}

// transitions is the forward graph. Refunded has no inbound edge here; it is
// reached only through Engine.Refund.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusReady, StatusCancelled},
	StatusReady:      {StatusPickedUp, StatusDelivering},
	StatusPickedUp:   {StatusDelivering},
	StatusDelivering: {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

var transitionSet = buildTransitionSet(transitions)

func buildTransitionSet(graph map[Status][]Status) map[Status]map[Status]struct{} {
	set := make(map[Status]map[Status]struct{}, len(graph))
	for from, tos := range graph {
		next := make(map[Status]struct{}, len(tos))
		for _, to := range tos {
			next[to] = struct{}{}
		}
		set[from] = next
	}
	return set
}

// refundable lists the statuses past the cancellation point from which a refund
// is the only way out.
var refundable = map[Status]bool{
	StatusReady:      true,
	StatusPickedUp:   true,
	StatusDelivering: true,
}

// driverStatuses imply an assigned driver on delivery orders.
var driverStatuses = map[Status]bool{
	StatusPickedUp:   true,
	StatusDelivering: true,
	StatusDelivered:  true,
}

// Statuses returns all known statuses in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s.
func IsTerminal(s Status) bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanRefund reports whether an order in s may be refunded.
func CanRefund(s Status) bool {
	return refundable[s]
}

// CanTransition checks if from->to is an edge of the graph.
func CanTransition(from, to Status) bool {
	next, ok := transitionSet[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// Next returns the outgoing edges of s in graph order.
func Next(s Status) []Status {
	tos := transitions[s]
	out := make([]Status, len(tos))
	copy(out, tos)
	return out
}
