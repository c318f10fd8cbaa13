package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/model"
)

// User serves read-only account queries.
type User struct {
	userStore model.UserStore
	logger    *logger.Logger
}

func NewUser(userStore model.UserStore, logger *logger.Logger) *User {
	return &User{userStore: userStore, logger: logger}
}

// Profile returns the current public identity of user id.
func (u *User) Profile(ctx context.Context, id int64) (model.Identity, error) {
	identity, err := u.userStore.GetIdentityByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, model.ErrUserGone
	}
	if err != nil {
		u.logger.Error("User service: failed to get profile",
			"user_id", id,
			"error", err.Error())
		return model.Identity{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return identity, nil
}

// Ping reports whether the user store is reachable.
func (u *User) Ping(ctx context.Context) error {
	return u.userStore.Ping(ctx)
}
