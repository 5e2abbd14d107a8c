package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret-test-secret-test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "sevasetu-test",
	})
	return NewAuthService(users, tokens, newFakeMemberStore(), jwtSvc), users, tokens
}

func registerUser(t *testing.T, svc *AuthService) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "Staff@SevaSetu.org",
		Password:  "supersecret1",
		FirstName: "Kiran",
		LastName:  "Rao",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterNormalizesAndDefaults(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user := registerUser(t, svc)

	assert.Equal(t, "staff@sevasetu.org", user.Email)
	assert.Equal(t, models.RoleMember, user.RoleType)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "supersecret1", user.Password)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "staff@sevasetu.org",
		Password:  "anothersecret",
		FirstName: "Kiran",
		LastName:  "Rao",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registerUser(t, svc)

	tokens, user, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@sevasetu.org",
		Password: "supersecret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	registered := registerUser(t, svc)

	for i := 0; i < models.MaxLoginAttempts; i++ {
		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "staff@sevasetu.org",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	locked, err := users.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.NotNil(t, locked.LockUntil)

	// Even the right password is refused while locked.
	_, _, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@sevasetu.org",
		Password: "supersecret1",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)

	// After the lockout window the correct password works and resets the
	// counter.
	svc.now = func() time.Time { return time.Now().Add(models.LockoutDuration + time.Minute) }
	_, _, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@sevasetu.org",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	fresh, err := users.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Zero(t, fresh.LoginAttempts)
	assert.Nil(t, fresh.LockUntil)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registerUser(t, svc)

	tokens, _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@sevasetu.org",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The consumed token is gone.
	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user := registerUser(t, svc)

	tokens, _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@sevasetu.org",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), "user", user.ID))

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
