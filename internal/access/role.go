// Package access decides whether an authenticated identity may use a resource.
package access

import (
	"fmt"

	"github.com/dtroode/bookshop-server/internal/model"
)

// RoleGuard admits identities whose role is in a fixed set.
type RoleGuard struct {
	allowed map[model.Role]struct{}
}

// NewRoleGuard creates a guard admitting the given roles.
// A guard built with no roles admits nobody.
func NewRoleGuard(roles ...model.Role) *RoleGuard {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return &RoleGuard{allowed: allowed}
}

// Authorize returns model.ErrUnauthorized when no identity is attached and
// model.ErrForbidden when its role is not allowed.
func (g *RoleGuard) Authorize(identity *model.Identity) error {
	if identity == nil {
		return model.ErrUnauthorized
	}
	if _, ok := g.allowed[identity.Role]; !ok {
		return fmt.Errorf("%w: role %q", model.ErrForbidden, identity.Role)
	}
	return nil
}

// Roles returns the allowed roles.
func (g *RoleGuard) Roles() []model.Role {
	roles := make([]model.Role, 0, len(g.allowed))
	for r := range g.allowed {
		roles = append(roles, r)
	}
	return roles
}
