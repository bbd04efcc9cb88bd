package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/auth"
)

func newAuthServiceForTest() (AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret-key",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "studyhub.test",
	})
	return NewAuthService(users, tokens, jwtService), users, tokens
}

func registerTestUser(t *testing.T, svc AuthService) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jordan@university.edu",
		Password: "secret1234",
		FullName: "Jordan Lee",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	resp := registerTestUser(t, svc)
	assert.Equal(t, "jordan@university.edu", resp.Email)
	assert.NotZero(t, resp.UserID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "  Jordan@University.EDU ",
		Password: "secret1234",
		FullName: "Jordan Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, "jordan@university.edu", resp.Email)

	_, err = users.GetUserByEmail(context.Background(), "jordan@university.edu")
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "JORDAN@university.edu",
		Password: "another123",
		FullName: "Impostor",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jordan@university.edu",
		Password: "short1",
		FullName: "Jordan Lee",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jordan@university.edu",
		Password: "lettersonly",
		FullName: "Jordan Lee",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()
	registered := registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "Jordan@University.edu",
		Password: "secret1234",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, resp.UserID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)

	assert.Contains(t, users.lastLoginFor, registered.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jordan@university.edu",
		Password: "wrongpass1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	// Unknown accounts get the same error as wrong passwords.
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@university.edu",
		Password: "secret1234",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()
	registered := registerTestUser(t, svc)

	users.byID[registered.UserID].IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jordan@university.edu",
		Password: "secret1234",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()
	registerTestUser(t, svc)

	users.lastLoginErr = assert.AnError

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jordan@university.edu",
		Password: "secret1234",
	})
	assert.NoError(t, err)
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	registered := registerTestUser(t, svc)

	fresh, err := svc.RefreshToken(context.Background(), registered.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEqual(t, registered.Tokens.RefreshToken, fresh.RefreshToken)

	// The used token was revoked; a replay fails.
	_, err = svc.RefreshToken(context.Background(), registered.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// The freshly issued token still works.
	_, err = svc.RefreshToken(context.Background(), fresh.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshTokenUnknown(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	_, err := svc.RefreshToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRefreshTokenDisabledAccount(t *testing.T) {
	svc, users, _ := newAuthServiceForTest()
	registered := registerTestUser(t, svc)

	users.byID[registered.UserID].IsActive = false

	_, err := svc.RefreshToken(context.Background(), registered.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestLogout(t *testing.T) {
	svc, _, tokens := newAuthServiceForTest()
	registered := registerTestUser(t, svc)

	require.NoError(t, svc.Logout(context.Background(), registered.Tokens.RefreshToken))
	assert.True(t, tokens.revoked[registered.Tokens.RefreshToken])

	_, err := svc.RefreshToken(context.Background(), registered.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLogoutUnknownToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	assert.NoError(t, svc.Logout(context.Background(), "never-issued"))
}
