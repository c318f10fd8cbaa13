package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/bookshop-server/internal/model"
)

// Claims represents JWT claims carrying the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64      `json:"id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC-SHA256.
// It holds no mutable state and is safe for concurrent use.
type JWT struct {
	secretKey []byte
	now       func() time.Time
	parser    *jwt.Parser
}

// Option configures a JWT manager.
type Option func(*JWT)

// WithClock replaces the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string, opts ...Option) (*JWT, error) {
	if secretKey == "" {
		return nil, model.ErrEmptySecret
	}

	j := &JWT{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	// Strict decoding rejects non-zero trailing bits, so no two encodings of
	// the same signature are both accepted.
	// A token is expired from the second of its exp claim onward (RFC 7519
	// 4.1.4, "on or after"), one second earlier than a strict now > exp reading.
	j.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	)

	return j, nil
}

// Issue signs a token for identity valid for model.TokenTTL from now.
func (j *JWT) Issue(identity model.Identity) (string, model.Claims, error) {
	now := j.now()
	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(now.Add(model.TokenTTL))
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", model.Claims{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, model.Claims{
		ID:        identity.ID,
		Email:     identity.Email,
		Role:      identity.Role,
		TokenID:   jti,
		IssuedAt:  issuedAt.UTC(),
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

// Parse verifies structure, signature and expiry, in that order, and returns
// the claims. Errors are model.ErrTokenMalformed, model.ErrTokenInvalid or
// model.ErrTokenExpired wrapped with the parser's reason.
func (j *JWT) Parse(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := j.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return model.Claims{}, classify(err)
	}
	if !token.Valid {
		return model.Claims{}, model.ErrTokenInvalid
	}
	if claims.UserID <= 0 || claims.IssuedAt == nil {
		return model.Claims{}, fmt.Errorf("%w: missing identity claims", model.ErrTokenInvalid)
	}

	return model.Claims{
		ID:        claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.UTC(),
		ExpiresAt: claims.ExpiresAt.UTC(),
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
}
