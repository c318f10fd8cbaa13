package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/bookshop-server/internal/model"
)

var testIdentity = model.Identity{ID: 42, Email: "reader@example.com", Role: model.RoleUser}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWT_EmptySecret(t *testing.T) {
	_, err := NewJWT("")
	require.ErrorIs(t, err, model.ErrEmptySecret)
}

func TestJWT_Roundtrip(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	token, issued, err := j.Issue(testIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Len(t, strings.Split(token, "."), 3)

	got, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, got.Identity())
	assert.Equal(t, issued.TokenID, got.TokenID)
	assert.True(t, issued.IssuedAt.Equal(got.IssuedAt))
	assert.True(t, issued.ExpiresAt.Equal(got.ExpiresAt))
	assert.Equal(t, model.TokenTTL, got.ExpiresAt.Sub(got.IssuedAt))
}

func TestJWT_ClaimsIDMatchesUser(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	for _, id := range []int64{1, 7, 1 << 40} {
		identity := model.Identity{ID: id, Email: "a@b.c", Role: model.RoleAdmin}
		token, _, err := j.Issue(identity)
		require.NoError(t, err)

		got, err := j.Parse(token)
		require.NoError(t, err)
		require.Equal(t, id, got.ID)
		require.Equal(t, model.RoleAdmin, got.Role)
	}
}

func TestJWT_UniqueTokenIDs(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	_, first, err := j.Issue(testIdentity)
	require.NoError(t, err)
	_, second, err := j.Issue(testIdentity)
	require.NoError(t, err)
	require.NotEqual(t, first.TokenID, second.TokenID)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewJWT("secret", WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)

	token, _, err := issuer.Issue(testIdentity)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "just issued", now: issuedAt},
		{name: "one minute before expiry", now: issuedAt.Add(model.TokenTTL - time.Minute)},
		{name: "one second before expiry", now: issuedAt.Add(model.TokenTTL - time.Second)},
		{name: "at expiry", now: issuedAt.Add(model.TokenTTL), wantErr: model.ErrTokenExpired},
		{name: "one second after expiry", now: issuedAt.Add(model.TokenTTL + time.Second), wantErr: model.ErrTokenExpired},
		{name: "two hours later", now: issuedAt.Add(2 * time.Hour), wantErr: model.ErrTokenExpired},
		{name: "issued in the future", now: issuedAt.Add(-time.Hour), wantErr: model.ErrTokenInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verifier, err := NewJWT("secret", WithClock(fixedClock(tt.now)))
			require.NoError(t, err)

			got, err := verifier.Parse(token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testIdentity, got.Identity())
		})
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	issuer, err := NewJWT("secret")
	require.NoError(t, err)
	verifier, err := NewJWT("another-secret")
	require.NoError(t, err)

	token, _, err := issuer.Issue(testIdentity)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_SingleCharacterTamper(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	token, _, err := j.Issue(testIdentity)
	require.NoError(t, err)

	for i := range token {
		if token[i] == '.' {
			continue
		}
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := j.Parse(tampered)
		require.Error(t, err, "position %d", i)
		require.Truef(t,
			errorIsAny(err, model.ErrTokenInvalid, model.ErrTokenMalformed),
			"position %d: unexpected error %v", i, err)
	}
}

func TestJWT_RejectsOtherAlgorithms(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: testIdentity.ID,
		Email:  testIdentity.Email,
		Role:   model.RoleAdmin,
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.Parse(none)
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = j.Parse(hs512)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_MissingClaims(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		claims Claims
	}{
		{
			name: "no expiry",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
				UserID:           1,
			},
		},
		{
			name: "no user id",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					IssuedAt:  jwt.NewNumericDate(time.Now()),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte("secret"))
			require.NoError(t, err)

			_, err = j.Parse(token)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
		})
	}
}

func TestJWT_Malformed(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	for _, raw := range []string{"", "abc", "a.b", "a.b.c", "not a token at all"} {
		_, err := j.Parse(raw)
		require.ErrorIs(t, err, model.ErrTokenMalformed, "input %q", raw)
	}
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
