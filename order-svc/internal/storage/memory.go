package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"
)

// MemoryStore keeps orders in process. Records are cloned on the way in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]lifecycle.Order
	qr     map[string][]byte
	issued map[int]int
}

func NewMemoryStore(seed []lifecycle.Order) *MemoryStore {
	s := &MemoryStore{
		orders: make(map[string]lifecycle.Order, len(seed)),
		qr:     make(map[string][]byte),
		issued: make(map[int]int),
	}
	for _, o := range seed {
		s.orders[o.ID] = o.Clone()
	}
	return s
}

func (s *MemoryStore) Create(ctx context.Context, order lifecycle.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (lifecycle.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return lifecycle.Order{}, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return o.Clone(), nil
}

// List returns matches newest first.
func (s *MemoryStore) List(ctx context.Context, filter domain.OrderFilter) ([]lifecycle.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []lifecycle.Order{}
	for _, o := range s.orders {
		if filter.Match(o) {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, order lifecycle.Order, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[order.ID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, order.ID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: %s at version %d, expected %d", domain.ErrVersionConflict, order.ID, current.Version, expectedVersion)
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

// Delete removes the order and its receipt. Deleting a missing order is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, id)
	delete(s.qr, id)
	return nil
}

// NextOrderNumber continues the SE-YYYY-NNN sequence for year. Numbers are
// never handed out twice, even if the order is not stored afterwards.
func (s *MemoryStore) NextOrderNumber(ctx context.Context, year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := fmt.Sprintf("SE-%d-", year)
	highest := s.issued[year]
	for _, o := range s.orders {
		if !strings.HasPrefix(o.OrderNumber, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(o.OrderNumber, prefix)); err == nil && n > highest {
			highest = n
		}
	}
	s.issued[year] = highest + 1
	return FormatOrderNumber(year, highest+1), nil
}

func (s *MemoryStore) SaveQRCode(ctx context.Context, id string, qr []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	s.qr[id] = append([]byte(nil), qr...)
	return nil
}

func (s *MemoryStore) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.orders[id]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return append([]byte(nil), s.qr[id]...), nil
}

func FormatOrderNumber(year, seq int) string {
	return fmt.Sprintf("SE-%d-%03d", year, seq)
}
