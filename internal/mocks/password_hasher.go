package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// PasswordHasher is a mock type for the model.PasswordHasher type.
type PasswordHasher struct {
	mock.Mock
}

// Hash provides a mock function with given fields: ctx, plain
func (_m *PasswordHasher) Hash(ctx context.Context, plain string) (string, error) {
	ret := _m.Called(ctx, plain)

	if len(ret) == 0 {
		panic("no return value specified for Hash")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, plain)
	}
	r0 = ret.String(0)
	r1 = ret.Error(1)

	return r0, r1
}

// Verify provides a mock function with given fields: ctx, plain, hash
func (_m *PasswordHasher) Verify(ctx context.Context, plain string, hash string) (bool, error) {
	ret := _m.Called(ctx, plain, hash)

	if len(ret) == 0 {
		panic("no return value specified for Verify")
	}

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (bool, error)); ok {
		return rf(ctx, plain, hash)
	}
	r0 = ret.Bool(0)
	r1 = ret.Error(1)

	return r0, r1
}

// NewPasswordHasher creates a new instance of PasswordHasher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
