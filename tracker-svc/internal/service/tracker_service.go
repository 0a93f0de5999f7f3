package service

import (
	"context"
	"fmt"
	"time"

	"sergei-eats/lifecycle"
	"sergei-eats/tracker-svc/internal/domain"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

type TrackerService struct {
	store StoreInterface
	now   func() time.Time
}

func NewTrackerService(store StoreInterface, now func() time.Time) *TrackerService {
	if now == nil {
		now = time.Now
	}
	return &TrackerService{store: store, now: now}
}

func (s *TrackerService) Order(ctx context.Context, id string) (lifecycle.Order, error) {
	order, err := s.store.Snapshot(ctx, id)
	if err != nil {
		return lifecycle.Order{}, err
	}
	if order == nil {
		return lifecycle.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrSnapshotNotFound)
	}
	return *order, nil
}

// RestaurantSummary reports day (YYYY-MM-DD, today when empty).
func (s *TrackerService) RestaurantSummary(ctx context.Context, restaurantID, day string) (domain.RestaurantSummary, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return domain.RestaurantSummary{}, err
	}

	counts, err := s.store.StatusCounts(ctx, restaurantID)
	if err != nil {
		return domain.RestaurantSummary{}, err
	}
	placed, err := s.store.Placed(ctx, day, restaurantID)
	if err != nil {
		return domain.RestaurantSummary{}, err
	}
	revenue, err := s.store.Revenue(ctx, day, restaurantID)
	if err != nil {
		return domain.RestaurantSummary{}, err
	}

	summary := domain.RestaurantSummary{
		RestaurantID: restaurantID,
		Date:         day,
		StatusCounts: counts,
		Placed:       placed,
		Revenue:      revenue,
	}
	for status, n := range counts {
		if !lifecycle.IsTerminal(status) {
			summary.Open += n
		}
	}
	return summary, nil
}

// TopRestaurants ranks by revenue on day. "all" ranks over all time and an
// empty day means today.
func (s *TrackerService) TopRestaurants(ctx context.Context, day string, limit int) ([]domain.RestaurantRevenue, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	if day == "all" {
		return s.store.TopRestaurants(ctx, "", limit)
	}
	day, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}
	return s.store.TopRestaurants(ctx, day, limit)
}

func (s *TrackerService) resolveDay(day string) (string, error) {
	if day == "" {
		return s.now().UTC().Format(domain.DayLayout), nil
	}
	if _, err := domain.ParseDay(day); err != nil {
		return "", err
	}
	return day, nil
}
