// Package memory provides an in-process user store for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/dtroode/bookshop-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps users in maps guarded by a mutex. Email uniqueness is
// checked and the user inserted under the same lock.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]model.User
	byEmail map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[int64]model.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *UserRepository) GetIdentityByID(ctx context.Context, id int64) (model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return model.Identity{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return model.Identity{}, model.ErrNotFound
	}
	return user.Identity(), nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return model.User{}, model.ErrDuplicateEmail
	}

	r.nextID++
	user.ID = r.nextID
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID

	return user, nil
}

// Delete removes user id. Tokens issued to it stop resolving.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, user.Email)
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
