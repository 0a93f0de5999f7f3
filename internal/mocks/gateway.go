package mocks

import (
	"context"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"

	"github.com/stretchr/testify/mock"
)

// Gateway is a mock of backend.Gateway.
type Gateway struct {
	mock.Mock
}

func (_m *Gateway) FetchOrder(ctx context.Context, id string) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (lifecycle.Order, error)); ok {
		return rf(ctx, id)
	}
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *Gateway) SubmitTransition(ctx context.Context, id string, target lifecycle.Status, actor backend.Actor) (lifecycle.Order, error) {
	ret := _m.Called(ctx, id, target, actor)

	if rf, ok := ret.Get(0).(func(context.Context, string, lifecycle.Status, backend.Actor) (lifecycle.Order, error)); ok {
		return rf(ctx, id, target, actor)
	}
	return ret.Get(0).(lifecycle.Order), ret.Error(1)
}

func (_m *Gateway) SubscribeOrderUpdates(ctx context.Context, handler func(lifecycle.Order)) error {
	ret := _m.Called(ctx, handler)

	if rf, ok := ret.Get(0).(func(context.Context, func(lifecycle.Order)) error); ok {
		return rf(ctx, handler)
	}
	return ret.Error(0)
}

func NewGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *Gateway {
	m := &Gateway{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ backend.Gateway = (*Gateway)(nil)
