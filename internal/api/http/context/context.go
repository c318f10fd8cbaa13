package context

import (
	"context"

	"github.com/dtroode/bookshop-server/internal/model"
)

type identityKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the authenticated identity as a typed request context value.
type Manager struct{}

// NewManager creates a new HTTP context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentity returns a copy of ctx carrying identity.
func (m *Manager) SetIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity returns the identity attached by SetIdentity, if any.
func (m *Manager) GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	return identity, ok
}
