package model

import "context"

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	// Hash returns a salted one-way digest of plain.
	Hash(ctx context.Context, plain string) (string, error)
	// Verify reports whether plain matches hash. A malformed hash never matches.
	Verify(ctx context.Context, plain, hash string) (bool, error)
}
