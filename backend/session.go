package backend

import (
	"context"
	"fmt"
	"sync"

	"sergei-eats/lifecycle"
	"sergei-eats/pricing"
)

// Session is the presentation-facing view of the orders one actor works with.
// Changes are shown provisionally as soon as they pass the local engine check;
// the record the order service returns, or later pushes, replaces the
// provisional one wholesale.
type Session struct {
	gateway    Gateway
	engine     *lifecycle.Engine
	calculator *pricing.Calculator
	actor      Actor

	mu          sync.Mutex
	confirmed   map[string]lifecycle.Order
	provisional map[string]lifecycle.Order
	onChange    func(lifecycle.Order)
}

func NewSession(gateway Gateway, engine *lifecycle.Engine, calculator *pricing.Calculator, actor Actor) *Session {
	return &Session{
		gateway:     gateway,
		engine:      engine,
		calculator:  calculator,
		actor:       actor,
		confirmed:   make(map[string]lifecycle.Order),
		provisional: make(map[string]lifecycle.Order),
	}
}

// OnChange registers fn to be called with the visible record whenever it changes.
func (s *Session) OnChange(fn func(lifecycle.Order)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) Actor() Actor {
	return s.actor
}

// Load fetches id from the order service and makes it the confirmed record.
func (s *Session) Load(ctx context.Context, id string) (lifecycle.Order, error) {
	order, err := s.gateway.FetchOrder(ctx, id)
	if err != nil {
		return lifecycle.Order{}, err
	}
	s.Reconcile(order)
	return s.mustView(id), nil
}

// Order returns the record currently shown for id.
func (s *Session) Order(id string) (lifecycle.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.view(id)
	if !ok {
		return lifecycle.Order{}, false
	}
	return o.Clone(), true
}

// AvailableTransitions lists what the session actor may do next with id.
func (s *Session) AvailableTransitions(id string) []lifecycle.Status {
	order, ok := s.Order(id)
	if !ok {
		return []lifecycle.Status{}
	}
	return AvailableFor(s.engine, s.actor, order)
}

// Apply validates target locally and shows the result provisionally without a
// round trip.
func (s *Session) Apply(id string, target lifecycle.Status) (lifecycle.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.view(id)
	if !ok {
		return lifecycle.Order{}, fmt.Errorf("%s: %w", id, ErrOrderNotFound)
	}
	next, err := Plan(s.engine, s.actor, current, target)
	if err != nil {
		return lifecycle.Order{}, err
	}
	s.provisional[id] = next
	s.notify(next)
	return next.Clone(), nil
}

// Submit applies target provisionally, then asks the order service. The
// returned record is authoritative. On failure the provisional change is
// rolled back and the error returned.
func (s *Session) Submit(ctx context.Context, id string, target lifecycle.Status) (lifecycle.Order, error) {
	s.mu.Lock()
	prior, hadProvisional := s.provisional[id]
	s.mu.Unlock()

	if _, err := s.Apply(id, target); err != nil {
		return lifecycle.Order{}, err
	}

	order, err := s.gateway.SubmitTransition(ctx, id, target, s.actor)
	if err != nil {
		s.mu.Lock()
		if hadProvisional {
			s.provisional[id] = prior
		} else {
			delete(s.provisional, id)
		}
		if v, ok := s.view(id); ok {
			s.notify(v)
		}
		s.mu.Unlock()
		return lifecycle.Order{}, err
	}

	s.mu.Lock()
	if current, ok := s.confirmed[id]; !ok || !Newer(current, order) {
		s.confirmed[id] = order.Clone()
	}
	delete(s.provisional, id)
	s.notify(order)
	s.mu.Unlock()
	return order.Clone(), nil
}

// Reconcile accepts a pushed or fetched snapshot. It replaces the confirmed
// record when it is newer and drops a provisional record the server has caught
// up with. It reports whether the visible record changed.
func (s *Session) Reconcile(order lifecycle.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.confirmed[order.ID]; ok && !Newer(order, current) {
		return false
	}
	s.confirmed[order.ID] = order.Clone()
	if p, ok := s.provisional[order.ID]; ok {
		if order.Version < p.Version {
			return false
		}
		delete(s.provisional, order.ID)
	}
	s.notify(order)
	return true
}

// Watch feeds pushed updates into Reconcile until ctx is done.
func (s *Session) Watch(ctx context.Context) error {
	return s.gateway.SubscribeOrderUpdates(ctx, func(order lifecycle.Order) {
		s.Reconcile(order)
	})
}

// ComputeTotal prices a cart for display.
func (s *Session) ComputeTotal(ctx context.Context, items []pricing.LineItem, deliveryFee, taxRate float64, code string) (pricing.Quote, error) {
	return s.calculator.ComputeTotal(ctx, items, deliveryFee, taxRate, code)
}

func (s *Session) view(id string) (lifecycle.Order, bool) {
	if p, ok := s.provisional[id]; ok {
		return p, true
	}
	o, ok := s.confirmed[id]
	return o, ok
}

func (s *Session) mustView(id string) lifecycle.Order {
	o, _ := s.Order(id)
	return o
}

// notify runs with s.mu held.
func (s *Session) notify(order lifecycle.Order) {
	if s.onChange != nil {
		s.onChange(order.Clone())
	}
}
