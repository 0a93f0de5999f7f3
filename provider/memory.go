package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"sergei-eats/pricing"
)

// Memory is the simulator used in mock mode. It serves the same capability
// surface as the live client from an in-process copy of a Seed.
type Memory struct {
	mu          sync.RWMutex
	restaurants []Restaurant
	categories  []MenuCategory
	items       []MenuItem
	discounts   []pricing.Discount
	now         func() time.Time
}

func NewMemory(seed *Seed, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	m := &Memory{now: now}
	if seed != nil {
		m.restaurants = append(m.restaurants, seed.Restaurants...)
		m.categories = append(m.categories, seed.Categories...)
		m.items = append(m.items, seed.MenuItems...)
		m.discounts = append(m.discounts, seed.Discounts...)
	}
	return m
}

func (m *Memory) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Restaurant, 0, len(m.restaurants))
	for _, r := range m.restaurants {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.restaurants {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
}

func (m *Memory) ListCategories(ctx context.Context, restaurantID string) ([]MenuCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []MenuCategory{}
	for _, c := range m.categories {
		if c.RestaurantID == restaurantID && c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *Memory) ListMenuItems(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []MenuItem{}
	for _, it := range m.items {
		if it.RestaurantID == restaurantID && it.IsAvailable {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func (m *Memory) GetMenuItem(ctx context.Context, id string) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, it := range m.items {
		if it.ID == id {
			it := it
			return &it, nil
		}
	}
	return nil, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
}

func (m *Memory) ListActiveDiscounts(ctx context.Context) ([]pricing.Discount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	out := []pricing.Discount{}
	for _, d := range m.discounts {
		if d.ActiveAt(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Memory) FindDiscountByCode(ctx context.Context, code string) (*pricing.Discount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.discountIndex(code)
	if i < 0 {
		return nil, nil
	}
	d := m.discounts[i]
	return &d, nil
}

// IssueDiscount adds d to the catalog. Codes are unique and issued discounts
// are never edited afterwards.
func (m *Memory) IssueDiscount(ctx context.Context, d pricing.Discount) (*pricing.Discount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.discountIndex(d.Code) >= 0 {
		return nil, fmt.Errorf("%s: %w", d.Code, ErrDuplicateCode)
	}
	d.Code = pricing.NormalizeCode(d.Code)
	if d.ID == "" {
		d.ID = strconv.Itoa(len(m.discounts) + 1)
	}
	d.UsedCount = 0
	m.discounts = append(m.discounts, d)
	return &d, nil
}

// RedeemDiscount records one use of code.
func (m *Memory) RedeemDiscount(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.discountIndex(code)
	if i < 0 {
		return fmt.Errorf("discount %s: %w", code, ErrNotFound)
	}
	if m.discounts[i].Exhausted() {
		return pricing.ErrDiscountExhausted
	}
	m.discounts[i].UsedCount++
	return nil
}

func (m *Memory) discountIndex(code string) int {
	want := pricing.NormalizeCode(code)
	for i, d := range m.discounts {
		if pricing.NormalizeCode(d.Code) == want {
			return i
		}
	}
	return -1
}
