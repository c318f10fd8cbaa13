package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/bookshop-server/internal/api/http/response"
	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/metrics"
	"github.com/dtroode/bookshop-server/internal/model"
)

// TokenService resolves a bearer token to the identity of an existing user.
type TokenService interface {
	Resolve(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate validates bearer tokens and injects the identity into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handler rejects requests without a valid "Bearer <token>" Authorization
// header and passes the rest on with the resolved identity attached.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			metrics.RecordGuardDecision(metrics.GuardAuthenticate, metrics.OutcomeUnauthorized)
			response.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		identity, err := m.tokenService.Resolve(r.Context(), token)
		if err != nil {
			status, message, outcome := authFailure(err)
			metrics.RecordGuardDecision(metrics.GuardAuthenticate, outcome)
			if status == http.StatusInternalServerError {
				m.logger.Error("Authenticate middleware: failed to resolve token",
					"path", r.URL.Path,
					"error", err.Error())
			} else {
				m.logger.Debug("Authenticate middleware: request rejected",
					"path", r.URL.Path,
					"reason", err.Error())
			}
			response.Error(w, status, message)
			return
		}

		metrics.RecordGuardDecision(metrics.GuardAuthenticate, metrics.OutcomeSuccess)
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetIdentity(r.Context(), identity)))
	})
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func authFailure(err error) (status int, message, outcome string) {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired", metrics.OutcomeExpired
	case errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenMalformed):
		return http.StatusForbidden, "invalid token", metrics.OutcomeInvalidToken
	case errors.Is(err, model.ErrUserGone):
		return http.StatusUnauthorized, "user not found", metrics.OutcomeUnauthorized
	default:
		return http.StatusInternalServerError, "internal server error", metrics.OutcomeError
	}
}
