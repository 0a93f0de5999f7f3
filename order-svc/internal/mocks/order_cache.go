package mocks

import (
	"context"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"

	"github.com/stretchr/testify/mock"
)

// OrderCache is a mock of service.OrderCache.
type OrderCache struct {
	mock.Mock
}

func (_m *OrderCache) Get(ctx context.Context, id string) (*lifecycle.Order, error) {
	ret := _m.Called(ctx, id)

	var r0 *lifecycle.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*lifecycle.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderCache) Set(ctx context.Context, order lifecycle.Order) error {
	ret := _m.Called(ctx, order)
	return ret.Error(0)
}

func (_m *OrderCache) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func NewOrderCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderCache {
	m := &OrderCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// OrderPublisher is a mock of service.OrderPublisher.
type OrderPublisher struct {
	mock.Mock
}

func (_m *OrderPublisher) Publish(ctx context.Context, event backend.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func NewOrderPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderPublisher {
	m := &OrderPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// QRGenerator is a mock of service.QRGenerator.
type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID string) ([]byte, error) {
	ret := _m.Called(orderID)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func NewQRGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
