package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/bookshop-server/internal/mocks"
	"github.com/dtroode/bookshop-server/internal/model"
	"github.com/dtroode/bookshop-server/internal/password"
	"github.com/dtroode/bookshop-server/internal/repository/memory"
	"github.com/dtroode/bookshop-server/internal/testutil"
	"github.com/dtroode/bookshop-server/internal/token"
)

func newRealAuth(t *testing.T) (*Auth, *memory.UserRepository, *token.JWT) {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	store := memory.NewUserRepository()
	jwt, err := token.NewJWT("test-secret")
	require.NoError(t, err)

	return NewAuth(store, password.NewHasher(bcrypt.MinCost, 4, lg), jwt, lg), store, jwt
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewUserStore(t)
	hasher := mocks.NewPasswordHasher(t)
	tokMan := mocks.NewTokenManager(t)

	userStore.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
	hasher.On("Hash", mock.Anything, "secret123").Return("$2a$10$hash", nil).Once()
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@x.com" && u.PasswordHash == "$2a$10$hash" && u.Role == model.RoleUser && u.ID == 0
	})).Return(model.User{ID: 7, Email: "a@x.com", PasswordHash: "$2a$10$hash", Role: model.RoleUser}, nil).Once()
	tokMan.On("Issue", model.Identity{ID: 7, Email: "a@x.com", Role: model.RoleUser}).
		Return("signed", model.Claims{ID: 7}, nil).Once()

	a := NewAuth(userStore, hasher, tokMan, testutil.MakeNoopLogger())

	result, err := a.Register(ctx, "  A@X.com ", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, model.AuthResult{
		User:  model.Identity{ID: 7, Email: "a@x.com", Role: model.RoleUser},
		Token: "signed",
	}, result)
}

func TestAuth_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		role     model.Role
		wantErr  error
	}{
		{name: "empty email", email: "", password: "secret123", wantErr: model.ErrEmptyEmail},
		{name: "blank email", email: "   ", password: "secret123", wantErr: model.ErrEmptyEmail},
		{name: "not an email", email: "reader", password: "secret123", wantErr: model.ErrInvalidEmail},
		{name: "display name form", email: "Reader <r@x.com>", password: "secret123", wantErr: model.ErrInvalidEmail},
		{name: "empty password", email: "a@x.com", password: "", wantErr: model.ErrEmptyPassword},
		{name: "password too long", email: "a@x.com", password: strings.Repeat("p", 73), wantErr: model.ErrPasswordTooLong},
		{name: "unknown role", email: "a@x.com", password: "secret123", role: "superuser", wantErr: model.ErrInvalidRole},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := NewAuth(mocks.NewUserStore(t), mocks.NewPasswordHasher(t), mocks.NewTokenManager(t), testutil.MakeNoopLogger())

			_, err := a.Register(context.Background(), tt.email, tt.password, tt.role)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestAuth_Register_ExistingUser(t *testing.T) {
	userStore := mocks.NewUserStore(t)
	userStore.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{ID: 1, Email: "a@x.com"}, nil).Once()

	a := NewAuth(userStore, mocks.NewPasswordHasher(t), mocks.NewTokenManager(t), testutil.MakeNoopLogger())

	_, err := a.Register(context.Background(), "a@x.com", "secret123", model.RoleUser)
	require.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestAuth_Register_CreateConflict(t *testing.T) {
	userStore := mocks.NewUserStore(t)
	hasher := mocks.NewPasswordHasher(t)

	userStore.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
	hasher.On("Hash", mock.Anything, "secret123").Return("hash", nil).Once()
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrDuplicateEmail).Once()

	a := NewAuth(userStore, hasher, mocks.NewTokenManager(t), testutil.MakeNoopLogger())

	_, err := a.Register(context.Background(), "a@x.com", "secret123", "")
	require.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestAuth_Register_StoreError(t *testing.T) {
	userStore := mocks.NewUserStore(t)
	userStore.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, assert.AnError).Once()

	a := NewAuth(userStore, mocks.NewPasswordHasher(t), mocks.NewTokenManager(t), testutil.MakeNoopLogger())

	_, err := a.Register(context.Background(), "a@x.com", "secret123", "")
	require.ErrorIs(t, err, assert.AnError)
	require.False(t, errors.Is(err, model.ErrDuplicateEmail))
}

func TestAuth_Register_TokenError(t *testing.T) {
	userStore := mocks.NewUserStore(t)
	hasher := mocks.NewPasswordHasher(t)
	tokMan := mocks.NewTokenManager(t)

	userStore.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
	hasher.On("Hash", mock.Anything, "secret123").Return("hash", nil).Once()
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{ID: 1, Email: "a@x.com", Role: model.RoleUser}, nil).Once()
	tokMan.On("Issue", mock.Anything).Return("", model.Claims{}, assert.AnError).Once()

	a := NewAuth(userStore, hasher, tokMan, testutil.MakeNoopLogger())

	_, err := a.Register(context.Background(), "a@x.com", "secret123", "")
	require.ErrorIs(t, err, assert.AnError)
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	stored := model.User{ID: 3, Email: "a@x.com", PasswordHash: "stored-hash", Role: model.RoleAdmin}

	tests := []struct {
		name      string
		email     string
		password  string
		setup     func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager)
		wantToken string
		wantErr   error
	}{
		{
			name:     "success",
			email:    "A@x.com",
			password: "secret123",
			setup: func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager) {
				us.On("GetByEmail", mock.Anything, "a@x.com").Return(stored, nil).Once()
				h.On("Verify", mock.Anything, "secret123", "stored-hash").Return(true, nil).Once()
				tm.On("Issue", stored.Identity()).Return("signed", model.Claims{}, nil).Once()
			},
			wantToken: "signed",
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "nope",
			setup: func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager) {
				us.On("GetByEmail", mock.Anything, "a@x.com").Return(stored, nil).Once()
				h.On("Verify", mock.Anything, "nope", "stored-hash").Return(false, nil).Once()
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:     "unknown email still verifies",
			email:    "ghost@x.com",
			password: "secret123",
			setup: func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager) {
				us.On("GetByEmail", mock.Anything, "ghost@x.com").Return(model.User{}, model.ErrNotFound).Once()
				h.On("Verify", mock.Anything, "secret123", dummyPasswordHash).Return(false, nil).Once()
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:     "verify cancelled",
			email:    "a@x.com",
			password: "secret123",
			setup: func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager) {
				us.On("GetByEmail", mock.Anything, "a@x.com").Return(stored, nil).Once()
				h.On("Verify", mock.Anything, "secret123", "stored-hash").Return(false, context.Canceled).Once()
			},
			wantErr: context.Canceled,
		},
		{
			name:     "store failure",
			email:    "a@x.com",
			password: "secret123",
			setup: func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager) {
				us.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, assert.AnError).Once()
			},
			wantErr: assert.AnError,
		},
		{
			name:     "missing email",
			password: "secret123",
			setup:    func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager) {},
			wantErr:  model.ErrEmptyEmail,
		},
		{
			name:    "missing password",
			email:   "a@x.com",
			setup:   func(us *mocks.UserStore, h *mocks.PasswordHasher, tm *mocks.TokenManager) {},
			wantErr: model.ErrEmptyPassword,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			us := mocks.NewUserStore(t)
			h := mocks.NewPasswordHasher(t)
			tm := mocks.NewTokenManager(t)
			tt.setup(us, h, tm)

			a := NewAuth(us, h, tm, testutil.MakeNoopLogger())

			result, err := a.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, result.Token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, result.Token)
			assert.Equal(t, stored.Identity(), result.User)
		})
	}
}

func TestAuth_Login_OverlongPasswordDoesNotMatchPrefix(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newRealAuth(t)

	longest := strings.Repeat("p", 72)
	_, err := a.Register(ctx, "a@x.com", longest, "")
	require.NoError(t, err)

	_, err = a.Login(ctx, "a@x.com", longest+"wrongsuffix")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = a.Login(ctx, "a@x.com", longest+"p")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	loggedIn, err := a.Login(ctx, "a@x.com", longest)
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	a, _, jwt := newRealAuth(t)

	registered, err := a.Register(ctx, "a@x.com", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", registered.User.Email)
	assert.Equal(t, model.RoleUser, registered.User.Role)

	claims, err := jwt.Parse(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.ID)

	_, err = a.Register(ctx, "a@x.com", "another1", "")
	require.ErrorIs(t, err, model.ErrDuplicateEmail)

	_, err = a.Login(ctx, "a@x.com", "wrong-password")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = a.Login(ctx, "nobody@x.com", "secret123")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	loggedIn, err := a.Login(ctx, "A@X.COM", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.User, loggedIn.User)

	claims, err = jwt.Parse(loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User, claims.Identity())
}

func TestAuth_ConcurrentRegisterSameEmail(t *testing.T) {
	ctx := context.Background()
	a, store, _ := newRealAuth(t)

	const workers = 8
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		successes atomic.Int32
		dupes     atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := a.Register(ctx, "race@x.com", "secret123", "")
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, model.ErrDuplicateEmail):
				dupes.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), dupes.Load())

	_, err := store.GetByEmail(ctx, "race@x.com")
	require.NoError(t, err)
}
