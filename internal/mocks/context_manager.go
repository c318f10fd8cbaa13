package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshop-server/internal/model"
)

// ContextManager is a mock type for the model.ContextManager type.
type ContextManager struct {
	mock.Mock
}

// SetIdentity provides a mock function with given fields: ctx, identity
func (_m *ContextManager) SetIdentity(ctx context.Context, identity model.Identity) context.Context {
	ret := _m.Called(ctx, identity)

	if len(ret) == 0 {
		panic("no return value specified for SetIdentity")
	}

	if rf, ok := ret.Get(0).(func(context.Context, model.Identity) context.Context); ok {
		return rf(ctx, identity)
	}
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(context.Context)
}

// GetIdentity provides a mock function with given fields: ctx
func (_m *ContextManager) GetIdentity(ctx context.Context) (model.Identity, bool) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetIdentity")
	}

	if rf, ok := ret.Get(0).(func(context.Context) (model.Identity, bool)); ok {
		return rf(ctx)
	}

	return ret.Get(0).(model.Identity), ret.Bool(1)
}

// NewContextManager creates a new instance of ContextManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
