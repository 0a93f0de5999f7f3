package service

import (
	"context"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/tracker-svc/internal/domain"
	"sergei-eats/tracker-svc/internal/storage"
)

type StoreInterface interface {
	Apply(ctx context.Context, order lifecycle.Order) (bool, error)
	Snapshot(ctx context.Context, orderID string) (*lifecycle.Order, error)
	StatusCounts(ctx context.Context, restaurantID string) (map[lifecycle.Status]int64, error)
	Placed(ctx context.Context, day, restaurantID string) (int64, error)
	Revenue(ctx context.Context, day, restaurantID string) (float64, error)
	TopRestaurants(ctx context.Context, day string, limit int) ([]domain.RestaurantRevenue, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, event backend.OrderEvent)
}

type TrackerInterface interface {
	Order(ctx context.Context, id string) (lifecycle.Order, error)
	RestaurantSummary(ctx context.Context, restaurantID, day string) (domain.RestaurantSummary, error)
	TopRestaurants(ctx context.Context, day string, limit int) ([]domain.RestaurantRevenue, error)
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
	_ TrackerInterface  = (*TrackerService)(nil)
)
