package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/metrics"
	"github.com/dtroode/bookshop-server/internal/model"
)

// dummyPasswordHash is verified against when the email is unknown so that
// login takes the same time whether or not the account exists. It is a
// well-formed cost-10 bcrypt string that matches no password.
//
//nolint:gosec // G101: not a credential.
const dummyPasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhI8yb5lVhEdYlJnUn.ztr3RrlGDMG1e"

const maxPasswordBytes = 72

// Auth registers users and logs them in, issuing an access token on success.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Register creates an account and returns its identity with a fresh token.
// An empty role means model.RoleUser.
func (a *Auth) Register(ctx context.Context, email, password string, role model.Role) (model.AuthResult, error) {
	email = model.NormalizeEmail(email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	result, err := a.register(ctx, email, password, role)
	metrics.RecordAuthOperation(metrics.OperationRegister, outcome(err))
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"email", email,
		"user_id", result.User.ID,
		"role", result.User.Role)

	return result, nil
}

func (a *Auth) register(ctx context.Context, email, password string, role model.Role) (model.AuthResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return model.AuthResult{}, err
	}

	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return model.AuthResult{}, model.ErrInvalidRole
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.AuthResult{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(ctx, password)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		a.logger.Info("Auth service: lost registration race",
			"email", email)
		return model.AuthResult{}, err
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	return a.issue(user.Identity())
}

// Login checks the password of the account registered under email.
// Unknown email and wrong password both return model.ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	email = model.NormalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	result, err := a.login(ctx, email, password)
	metrics.RecordAuthOperation(metrics.OperationLogin, outcome(err))
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			a.logger.Info("Auth service: login rejected",
				"email", email)
		}
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: user login completed successfully",
		"email", email,
		"user_id", result.User.ID)

	return result, nil
}

func (a *Auth) login(ctx context.Context, email, password string) (model.AuthResult, error) {
	if email == "" {
		return model.AuthResult{}, model.ErrEmptyEmail
	}
	if password == "" {
		return model.AuthResult{}, model.ErrEmptyPassword
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		if _, err := a.hasher.Verify(ctx, password, dummyPasswordHash); err != nil {
			return model.AuthResult{}, fmt.Errorf("failed to verify password: %w", err)
		}
		return model.AuthResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := a.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return model.AuthResult{}, model.ErrInvalidCredentials
	}

	return a.issue(user.Identity())
}

func (a *Auth) issue(identity model.Identity) (model.AuthResult, error) {
	token, _, err := a.tokenManager.Issue(identity)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", identity.ID,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return model.AuthResult{User: identity, Token: token}, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return model.ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return model.ErrInvalidEmail
	}
	if password == "" {
		return model.ErrEmptyPassword
	}
	if len(password) > maxPasswordBytes {
		return model.ErrPasswordTooLong
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, model.ErrDuplicateEmail):
		return metrics.OutcomeDuplicateEmail
	case errors.Is(err, model.ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	case errors.Is(err, model.ErrValidation):
		return metrics.OutcomeInvalidInput
	default:
		return metrics.OutcomeError
	}
}
