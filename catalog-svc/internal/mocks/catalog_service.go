package mocks

import (
	"context"

	"sergei-eats/catalog-svc/internal/domain"
	"sergei-eats/pricing"
	"sergei-eats/provider"

	"github.com/stretchr/testify/mock"
)

// CatalogServiceInterface is a mock of service.CatalogServiceInterface.
type CatalogServiceInterface struct {
	mock.Mock
}

func (_m *CatalogServiceInterface) Restaurants(ctx context.Context) ([]provider.Restaurant, error) {
	ret := _m.Called(ctx)

	var r0 []provider.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]provider.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) Restaurant(ctx context.Context, id string) (*provider.Restaurant, error) {
	ret := _m.Called(ctx, id)

	var r0 *provider.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*provider.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) Categories(ctx context.Context, restaurantID string) ([]provider.MenuCategory, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 []provider.MenuCategory
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]provider.MenuCategory)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) Menu(ctx context.Context, restaurantID string) (*domain.RestaurantMenu, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 *domain.RestaurantMenu
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.RestaurantMenu)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) MenuItem(ctx context.Context, id string) (*provider.MenuItem, error) {
	ret := _m.Called(ctx, id)

	var r0 *provider.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*provider.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) ActiveDiscounts(ctx context.Context) ([]pricing.Discount, error) {
	ret := _m.Called(ctx)

	var r0 []pricing.Discount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]pricing.Discount)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) Discount(ctx context.Context, code string) (*pricing.Discount, error) {
	ret := _m.Called(ctx, code)

	var r0 *pricing.Discount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*pricing.Discount)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) IssueDiscount(ctx context.Context, d pricing.Discount) (*pricing.Discount, error) {
	ret := _m.Called(ctx, d)

	var r0 *pricing.Discount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*pricing.Discount)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) RedeemDiscount(ctx context.Context, code string) error {
	ret := _m.Called(ctx, code)
	return ret.Error(0)
}

func NewCatalogServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogServiceInterface {
	m := &CatalogServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
