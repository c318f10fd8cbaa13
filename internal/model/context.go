package model

import "context"

// ContextManager stores and retrieves the request identity.
type ContextManager interface {
	SetIdentity(ctx context.Context, identity Identity) context.Context
	GetIdentity(ctx context.Context) (Identity, bool)
}
