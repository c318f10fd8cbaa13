package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshop-server/internal/model"
)

// TokenManager is a mock type for the model.TokenManager type.
type TokenManager struct {
	mock.Mock
}

// Issue provides a mock function with given fields: identity
func (_m *TokenManager) Issue(identity model.Identity) (string, model.Claims, error) {
	ret := _m.Called(identity)

	if len(ret) == 0 {
		panic("no return value specified for Issue")
	}

	if rf, ok := ret.Get(0).(func(model.Identity) (string, model.Claims, error)); ok {
		return rf(identity)
	}

	return ret.String(0), ret.Get(1).(model.Claims), ret.Error(2)
}

// Parse provides a mock function with given fields: token
func (_m *TokenManager) Parse(token string) (model.Claims, error) {
	ret := _m.Called(token)

	if len(ret) == 0 {
		panic("no return value specified for Parse")
	}

	if rf, ok := ret.Get(0).(func(string) (model.Claims, error)); ok {
		return rf(token)
	}

	return ret.Get(0).(model.Claims), ret.Error(1)
}

// NewTokenManager creates a new instance of TokenManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
