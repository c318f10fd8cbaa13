package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dtroode/bookshop-server/internal/api/http/response"
	"github.com/dtroode/bookshop-server/internal/model"
)

const maxBodyBytes = 1 << 20

// APIError is the HTTP rendering of a domain error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func handleError(err error) *APIError {
	switch {
	case errors.Is(err, model.ErrMalformedRequest):
		return &APIError{Status: http.StatusBadRequest, Message: "malformed request body"}
	case errors.Is(err, model.ErrEmptyEmail), errors.Is(err, model.ErrEmptyPassword):
		return &APIError{Status: http.StatusBadRequest, Message: "email and password are required"}
	case errors.Is(err, model.ErrInvalidEmail):
		return &APIError{Status: http.StatusBadRequest, Message: "invalid email"}
	case errors.Is(err, model.ErrPasswordTooLong):
		return &APIError{Status: http.StatusBadRequest, Message: "password must be at most 72 bytes"}
	case errors.Is(err, model.ErrInvalidRole):
		return &APIError{Status: http.StatusBadRequest, Message: "invalid role"}
	case errors.Is(err, model.ErrValidation):
		return &APIError{Status: http.StatusBadRequest, Message: "invalid request"}
	case errors.Is(err, model.ErrDuplicateEmail):
		return &APIError{Status: http.StatusConflict, Message: "email already registered"}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}
	case errors.Is(err, model.ErrUnauthorized):
		return &APIError{Status: http.StatusUnauthorized, Message: "unauthorized"}
	case errors.Is(err, model.ErrForbidden):
		return &APIError{Status: http.StatusForbidden, Message: "forbidden: insufficient role"}
	case errors.Is(err, model.ErrUserGone), errors.Is(err, model.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Message: "user not found"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &APIError{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	default:
		return &APIError{Status: http.StatusInternalServerError, Message: "internal server error"}
	}
}

func writeError(w http.ResponseWriter, err error) *APIError {
	apiErr := handleError(err)
	response.Error(w, apiErr.Status, apiErr.Message)
	return apiErr
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", model.ErrMalformedRequest, err)
	}
	return nil
}
