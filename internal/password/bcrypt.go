// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/metrics"
	"github.com/dtroode/bookshop-server/internal/model"
)

// maxPasswordBytes is the bcrypt input limit; longer inputs would be silently truncated.
const maxPasswordBytes = 72

var _ model.PasswordHasher = (*Hasher)(nil)

// Hasher implements model.PasswordHasher using bcrypt. Hash and verify calls
// run on the caller's goroutine but hold one of a fixed number of slots, so a
// burst of logins cannot starve the scheduler of CPU for unrelated requests.
type Hasher struct {
	cost   int
	slots  *semaphore.Weighted
	logger *logger.Logger
}

// NewHasher creates a Hasher. A cost outside bcrypt's bounds falls back to
// bcrypt.DefaultCost; a non-positive concurrency means GOMAXPROCS slots.
func NewHasher(cost, concurrency int, logger *logger.Logger) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	return &Hasher{
		cost:   cost,
		slots:  semaphore.NewWeighted(int64(concurrency)),
		logger: logger,
	}
}

// Cost returns the bcrypt cost new hashes are produced with.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt digest of plain with an embedded random salt.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if plain == "" {
		return "", model.ErrEmptyPassword
	}
	if len(plain) > maxPasswordBytes {
		return "", model.ErrPasswordTooLong
	}

	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire hashing slot: %w", err)
	}
	defer h.slots.Release(1)

	start := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	metrics.ObserveHash(metrics.HashOperationHash, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify compares plain against hash in constant time. A malformed hash
// yields false; the only error is ctx ending while waiting for a slot.
// Inputs over maxPasswordBytes never match: bcrypt would compare only their
// first 72 bytes.
func (h *Hasher) Verify(ctx context.Context, plain, hash string) (bool, error) {
	if len(plain) > maxPasswordBytes {
		return false, nil
	}

	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("failed to acquire hashing slot: %w", err)
	}
	defer h.slots.Release(1)

	start := time.Now()
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	metrics.ObserveHash(metrics.HashOperationVerify, time.Since(start))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		h.logger.Warn("Password hasher: stored hash is not a valid bcrypt hash",
			"error", err.Error())
		return false, nil
	}
}
