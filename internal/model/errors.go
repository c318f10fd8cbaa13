package model

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input validation failure.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyEmail       = fmt.Errorf("%w: email is required", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: email is invalid", ErrValidation)
	ErrEmptyPassword    = fmt.Errorf("%w: password is required", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password exceeds 72 bytes", ErrValidation)
	ErrInvalidRole      = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrMalformedRequest = fmt.Errorf("%w: malformed request body", ErrValidation)
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("malformed token")

	// ErrUserGone means a valid token names a user that no longer exists.
	ErrUserGone     = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrEmptySecret = errors.New("token signing secret is empty")
)
