package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/bookshop-server/internal/api/http/response"
	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/model"
)

// adminSecret is the payload of the admin probe route.
const adminSecret = "admin secret"

// UserService defines account queries for the authenticated user.
type UserService interface {
	Profile(ctx context.Context, id int64) (model.Identity, error)
}

// User handles endpoints under /users. Every route expects Authenticate to
// have attached the identity.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type profileResponse struct {
	User model.Identity `json:"user"`
}

type adminResponse struct {
	Secret string         `json:"secret"`
	User   model.Identity `json:"user"`
}

// Profile returns the current account of the caller.
func (h *User) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentity(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	profile, err := h.userService.Profile(r.Context(), identity.ID)
	if err != nil {
		apiErr := writeError(w, err)
		if apiErr.Status >= http.StatusInternalServerError {
			h.logger.Error("User handler: failed to get profile",
				"user_id", identity.ID,
				"error", err.Error())
		}
		return
	}

	response.JSON(w, http.StatusOK, profileResponse{User: profile})
}

// AdminOnly proves the caller passed the admin role guard.
func (h *User) AdminOnly(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentity(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	response.JSON(w, http.StatusOK, adminResponse{Secret: adminSecret, User: identity})
}
