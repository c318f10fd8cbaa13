package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/bookshop-server/internal/api/http/response"
	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, email, password string, role model.Role) (model.AuthResult, error)
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	model.Credentials
	Role model.Role `json:"role,omitempty"`
}

// Register creates an account and responds 201 with the user and a token.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		apiErr := writeError(w, err)
		if apiErr.Status >= http.StatusInternalServerError {
			h.logger.Error("Auth handler: registration failed",
				"email", req.Email,
				"error", err.Error())
		}
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// Login responds 200 with the user and a token for valid credentials.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apiErr := writeError(w, err)
		if apiErr.Status >= http.StatusInternalServerError {
			h.logger.Error("Auth handler: login failed",
				"email", req.Email,
				"error", err.Error())
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}
