package mocks

import (
	"context"

	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// OrderRepository is a mock of service.OrderRepository.
type OrderRepository struct {
	mock.Mock
}

func (_m *OrderRepository) Create(ctx context.Context, order lifecycle.Order) error {
	ret := _m.Called(ctx, order)
	return ret.Error(0)
}

func (_m *OrderRepository) Get(ctx context.Context, id string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (lifecycle.Order, error)); ok {
		return rf(ctx, id)
	}
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]lifecycle.Order, error) {
	ret := _m.Called(ctx, filter)

	var r0 []lifecycle.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]lifecycle.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) Update(ctx context.Context, order lifecycle.Order, expectedVersion int64) error {
	ret := _m.Called(ctx, order, expectedVersion)

	if rf, ok := ret.Get(0).(func(context.Context, lifecycle.Order, int64) error); ok {
		return rf(ctx, order, expectedVersion)
	}
	return ret.Error(0)
}

func (_m *OrderRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *OrderRepository) NextOrderNumber(ctx context.Context, year int) (string, error) {
	ret := _m.Called(ctx, year)
	return ret.String(0), ret.Error(1)
}

func (_m *OrderRepository) SaveQRCode(ctx context.Context, id string, qr []byte) error {
	ret := _m.Called(ctx, id, qr)
	return ret.Error(0)
}

func (_m *OrderRepository) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	ret := _m.Called(ctx, id)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
