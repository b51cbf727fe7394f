package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fastcart-api/internal/app"
	"fastcart-api/internal/app/apptest"
	"fastcart-api/internal/model"
	"fastcart-api/internal/pkg/jwtutil"
)

const testSecret = "test-secret"

func newAuthService(store app.UserStore) *app.AuthService {
	return app.NewAuthService(store, testSecret, 0, bcrypt.MinCost)
}

func TestRegister_CreatesHashedUser(t *testing.T) {
	store := apptest.NewUserStore()
	svc := newAuthService(store)

	user, err := svc.Register(context.Background(), app.RegisterInput{
		Name:     " Alice ",
		Username: " Alice ",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	stored, err := store.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newAuthService(apptest.NewUserStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, app.RegisterInput{Name: "Alice", Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, app.RegisterInput{Name: "Other", Username: "ALICE", Password: "secret2"})
	assert.ErrorIs(t, err, app.ErrUsernameExists)
}

// Simulates a concurrent signup that slipped past the lookup.
type racingUserStore struct {
	*apptest.UserStore
}

func (racingUserStore) GetByUsername(context.Context, string) (*model.User, error) {
	return nil, nil
}

func TestRegister_UniqueConstraintRace(t *testing.T) {
	inner := apptest.NewUserStore()
	svc := newAuthService(racingUserStore{inner})
	ctx := context.Background()

	_, err := svc.Register(ctx, app.RegisterInput{Name: "Alice", Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, app.RegisterInput{Name: "Alice", Username: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, app.ErrUsernameExists)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(apptest.NewUserStore())

	tests := []struct {
		name  string
		input app.RegisterInput
	}{
		{name: "missing name", input: app.RegisterInput{Username: "alice", Password: "secret1"}},
		{name: "blank username", input: app.RegisterInput{Name: "Alice", Username: "  ", Password: "secret1"}},
		{name: "missing password", input: app.RegisterInput{Name: "Alice", Username: "alice"}},
		{name: "short password", input: app.RegisterInput{Name: "Alice", Username: "alice", Password: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, app.ErrInvalidInput)
		})
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	store := apptest.NewUserStore()
	store.Err = apptest.ErrBoom
	svc := newAuthService(store)

	_, err := svc.Register(context.Background(), app.RegisterInput{Name: "Alice", Username: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, apptest.ErrBoom)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(apptest.NewUserStore())
	ctx := context.Background()

	user, err := svc.Register(ctx, app.RegisterInput{Name: "Alice", Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	t.Run("success issues a verifiable token", func(t *testing.T) {
		result, err := svc.Login(ctx, app.LoginInput{Username: "Alice", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)

		userID, err := svc.Authenticate(result.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)

		claims, err := jwtutil.ParseToken(testSecret, result.Token)
		require.NoError(t, err)
		assert.Nil(t, claims.ExpiresAt)
		assert.NotNil(t, claims.IssuedAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		result, err := svc.Login(ctx, app.LoginInput{Username: "alice", Password: "wrong-pass"})
		assert.ErrorIs(t, err, app.ErrInvalidCredential)
		assert.Nil(t, result)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, app.LoginInput{Username: "bob", Password: "secret1"})
		assert.ErrorIs(t, err, app.ErrUserNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, app.LoginInput{Username: "alice"})
		assert.ErrorIs(t, err, app.ErrInvalidInput)
	})
}

func TestLogin_WithExpiration(t *testing.T) {
	svc := app.NewAuthService(apptest.NewUserStore(), testSecret, time.Hour, bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, app.RegisterInput{Name: "Alice", Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, app.LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	claims, err := jwtutil.ParseToken(testSecret, result.Token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthenticate_RejectsForeignToken(t *testing.T) {
	svc := newAuthService(apptest.NewUserStore())

	token, err := jwtutil.GenerateToken("other-secret", 0, "user-1")
	require.NoError(t, err)

	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, jwtutil.ErrInvalidToken)
}
