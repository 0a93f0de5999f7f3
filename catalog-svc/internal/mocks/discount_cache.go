package mocks

import (
	"context"

	"sergei-eats/pricing"

	"github.com/stretchr/testify/mock"
)

// DiscountCache is a mock of service.DiscountCache.
type DiscountCache struct {
	mock.Mock
}

func (_m *DiscountCache) GetActive(ctx context.Context) ([]pricing.Discount, bool, error) {
	ret := _m.Called(ctx)

	var r0 []pricing.Discount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]pricing.Discount)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *DiscountCache) SetActive(ctx context.Context, discounts []pricing.Discount) error {
	ret := _m.Called(ctx, discounts)
	return ret.Error(0)
}

func (_m *DiscountCache) Invalidate(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func NewDiscountCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *DiscountCache {
	m := &DiscountCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
