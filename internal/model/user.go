package model

import (
	"context"
	"strings"
	"time"
)

// Role is the authorization role carried by a user and its tokens.
type Role string

const (
	// RoleUser is assigned to every account registered without an explicit role.
	RoleUser Role = "user"
	// RoleAdmin grants access to administrative routes.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetIdentityByID(ctx context.Context, id int64) (Identity, error)
	Create(ctx context.Context, user User) (User, error)
	Ping(ctx context.Context) error
}

// User represents a stored user with its password hash.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Identity returns the public projection of the user.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Credentials is the email/password pair presented on login or registration.
// It is never persisted or logged.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// NormalizeEmail trims and lower-cases an email address so lookups and the
// unique constraint agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
