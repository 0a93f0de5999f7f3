package mocks

import (
	"context"

	"sergei-eats/lifecycle"
	"sergei-eats/tracker-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// TrackerInterface is a mock of service.TrackerInterface.
type TrackerInterface struct {
	mock.Mock
}

func (_m *TrackerInterface) Order(ctx context.Context, id string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *TrackerInterface) RestaurantSummary(ctx context.Context, restaurantID, day string) (domain.RestaurantSummary, error) {
	ret := _m.Called(ctx, restaurantID, day)
	return ret.Get(0).(domain.RestaurantSummary), ret.Error(1)
}

func (_m *TrackerInterface) TopRestaurants(ctx context.Context, day string, limit int) ([]domain.RestaurantRevenue, error) {
	ret := _m.Called(ctx, day, limit)

	var r0 []domain.RestaurantRevenue
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.RestaurantRevenue)
	}
	return r0, ret.Error(1)
}

func NewTrackerInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *TrackerInterface {
	m := &TrackerInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
