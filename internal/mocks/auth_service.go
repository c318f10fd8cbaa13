package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshop-server/internal/model"
)

// AuthService is a mock type for the handler.AuthService type.
type AuthService struct {
	mock.Mock
}

// Register provides a mock function with given fields: ctx, email, password, role
func (_m *AuthService) Register(ctx context.Context, email string, password string, role model.Role) (model.AuthResult, error) {
	ret := _m.Called(ctx, email, password, role)

	if len(ret) == 0 {
		panic("no return value specified for Register")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string, model.Role) (model.AuthResult, error)); ok {
		return rf(ctx, email, password, role)
	}

	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

// Login provides a mock function with given fields: ctx, email, password
func (_m *AuthService) Login(ctx context.Context, email string, password string) (model.AuthResult, error) {
	ret := _m.Called(ctx, email, password)

	if len(ret) == 0 {
		panic("no return value specified for Login")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (model.AuthResult, error)); ok {
		return rf(ctx, email, password)
	}

	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

// NewAuthService creates a new instance of AuthService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
