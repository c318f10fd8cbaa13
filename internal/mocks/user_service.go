package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshop-server/internal/model"
)

// UserService is a mock type for the handler.UserService type.
type UserService struct {
	mock.Mock
}

// Profile provides a mock function with given fields: ctx, id
func (_m *UserService) Profile(ctx context.Context, id int64) (model.Identity, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Profile")
	}

	if rf, ok := ret.Get(0).(func(context.Context, int64) (model.Identity, error)); ok {
		return rf(ctx, id)
	}

	return ret.Get(0).(model.Identity), ret.Error(1)
}

// Ping provides a mock function with given fields: ctx
func (_m *UserService) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Ping")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}

// NewUserService creates a new instance of UserService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserService {
	m := &UserService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
