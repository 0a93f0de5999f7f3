package mocks

import (
	"context"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"
	"sergei-eats/pricing"

	"github.com/stretchr/testify/mock"
)

// OrderServiceInterface is a mock of service.OrderServiceInterface.
type OrderServiceInterface struct {
	mock.Mock
}

func (_m *OrderServiceInterface) Quote(ctx context.Context, req domain.QuoteRequest) (pricing.Quote, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(pricing.Quote), ret.Error(1)
}

func (_m *OrderServiceInterface) ValidateDiscount(ctx context.Context, code string, subtotal float64) (*pricing.Discount, error) {
	ret := _m.Called(ctx, code, subtotal)

	var r0 *pricing.Discount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*pricing.Discount)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Place(ctx context.Context, req domain.PlaceOrderRequest) (lifecycle.Order, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderServiceInterface) Get(ctx context.Context, id string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderServiceInterface) List(ctx context.Context, filter domain.OrderFilter) ([]lifecycle.Order, error) {
	ret := _m.Called(ctx, filter)

	var r0 []lifecycle.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]lifecycle.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Available(ctx context.Context) ([]lifecycle.Order, error) {
	ret := _m.Called(ctx)

	var r0 []lifecycle.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]lifecycle.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Transitions(ctx context.Context, id string, actor backend.Actor) ([]lifecycle.Status, error) {
	ret := _m.Called(ctx, id, actor)

	var r0 []lifecycle.Status
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]lifecycle.Status)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Transition(ctx context.Context, id string, target lifecycle.Status, actor backend.Actor, reason string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id, target, actor, reason)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderServiceInterface) AcceptDelivery(ctx context.Context, id, driverID string, target lifecycle.Status) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id, driverID, target)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderServiceInterface) CompleteDelivery(ctx context.Context, id, driverID string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id, driverID)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderServiceInterface) Cancel(ctx context.Context, id string, actor backend.Actor, reason string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id, actor, reason)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderServiceInterface) Refund(ctx context.Context, id, reason string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id, reason)
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *OrderServiceInterface) QRCode(ctx context.Context, id string) ([]byte, error) {
	ret := _m.Called(ctx, id)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) QRLink(id string) string {
	ret := _m.Called(id)
	return ret.String(0)
}

func NewOrderServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
