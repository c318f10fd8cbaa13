package middleware

import (
	"errors"
	"net/http"

	"github.com/dtroode/bookshop-server/internal/access"
	"github.com/dtroode/bookshop-server/internal/api/http/response"
	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/metrics"
	"github.com/dtroode/bookshop-server/internal/model"
)

// RequireRole admits requests whose identity, attached by Authenticate, has
// one of roles.
func RequireRole(contextManager model.ContextManager, logger *logger.Logger, roles ...model.Role) func(http.Handler) http.Handler {
	guard := access.NewRoleGuard(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity *model.Identity
			if id, ok := contextManager.GetIdentity(r.Context()); ok {
				identity = &id
			}

			err := guard.Authorize(identity)
			switch {
			case err == nil:
				metrics.RecordGuardDecision(metrics.GuardRole, metrics.OutcomeSuccess)
				next.ServeHTTP(w, r)
			case errors.Is(err, model.ErrUnauthorized):
				metrics.RecordGuardDecision(metrics.GuardRole, metrics.OutcomeUnauthorized)
				response.Error(w, http.StatusUnauthorized, "unauthorized")
			default:
				metrics.RecordGuardDecision(metrics.GuardRole, metrics.OutcomeForbidden)
				logger.Info("Role middleware: access denied",
					"path", r.URL.Path,
					"user_id", identity.ID,
					"role", identity.Role)
				response.Error(w, http.StatusForbidden, "forbidden: insufficient role")
			}
		})
	}
}
