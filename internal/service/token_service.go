package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/model"
)

// TokenService turns a presented bearer token into the identity of a user
// that still exists. It composes the TokenManager and the UserStore.
type TokenService struct {
	manager model.TokenManager
	store   model.UserStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// Resolve verifies token and loads the identity it names. Token failures are
// returned as classified by the manager; a deleted user yields model.ErrUserGone.
func (s *TokenService) Resolve(ctx context.Context, token string) (model.Identity, error) {
	claims, err := s.manager.Parse(token)
	if err != nil {
		return model.Identity{}, err
	}

	identity, err := s.store.GetIdentityByID(ctx, claims.ID)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Token service: token names a missing user",
			"user_id", claims.ID,
			"token_id", claims.TokenID)
		return model.Identity{}, model.ErrUserGone
	}
	if err != nil {
		s.logger.Error("Token service: failed to load user",
			"user_id", claims.ID,
			"error", err.Error())
		return model.Identity{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return identity, nil
}
