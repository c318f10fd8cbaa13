package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshop-server/internal/model"
)

// TokenService is a mock type for the middleware.TokenService type.
type TokenService struct {
	mock.Mock
}

// Resolve provides a mock function with given fields: ctx, token
func (_m *TokenService) Resolve(ctx context.Context, token string) (model.Identity, error) {
	ret := _m.Called(ctx, token)

	if len(ret) == 0 {
		panic("no return value specified for Resolve")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (model.Identity, error)); ok {
		return rf(ctx, token)
	}

	return ret.Get(0).(model.Identity), ret.Error(1)
}

// NewTokenService creates a new instance of TokenService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenService {
	m := &TokenService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
