package mocks

import (
	"context"

	"sergei-eats/lifecycle"
	"sergei-eats/tracker-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// StoreInterface is a mock of service.StoreInterface.
type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) Apply(ctx context.Context, order lifecycle.Order) (bool, error) {
	ret := _m.Called(ctx, order)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) Snapshot(ctx context.Context, orderID string) (*lifecycle.Order, error) {
	ret := _m.Called(ctx, orderID)

	var r0 *lifecycle.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*lifecycle.Order)
	}
	return r0, ret.Error(1)
}

func (_m *StoreInterface) StatusCounts(ctx context.Context, restaurantID string) (map[lifecycle.Status]int64, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 map[lifecycle.Status]int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[lifecycle.Status]int64)
	}
	return r0, ret.Error(1)
}

func (_m *StoreInterface) Placed(ctx context.Context, day, restaurantID string) (int64, error) {
	ret := _m.Called(ctx, day, restaurantID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *StoreInterface) Revenue(ctx context.Context, day, restaurantID string) (float64, error) {
	ret := _m.Called(ctx, day, restaurantID)
	return ret.Get(0).(float64), ret.Error(1)
}

func (_m *StoreInterface) TopRestaurants(ctx context.Context, day string, limit int) ([]domain.RestaurantRevenue, error) {
	ret := _m.Called(ctx, day, limit)

	var r0 []domain.RestaurantRevenue
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.RestaurantRevenue)
	}
	return r0, ret.Error(1)
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
