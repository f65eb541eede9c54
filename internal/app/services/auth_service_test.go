package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *MockUserRepository, *MockTokenRepository, *models.User) {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	user := &models.User{ID: 4, Email: "accountant@example.org", PasswordHash: hash, Role: models.RoleAccountant, IsActive: true}
	users := &MockUserRepository{}
	tokens := &MockTokenRepository{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret", AccessTokenExp: time.Hour, RefreshTokenExp: 24 * time.Hour, TokenIssuer: "scholaris",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop()), users, tokens, user
}

func TestLogin(t *testing.T) {
	svc, users, tokens, user := newAuthFixture(t)
	users.On("GetByEmail", mock.Anything, "accountant@example.org").Return(user, nil)
	tokens.On("CreateToken", mock.Anything, mock.AnythingOfType("string"), int64(4), mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: " Accountant@Example.org ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, models.RoleAccountant, resp.User.Role)
	tokens.AssertExpectations(t)
}

func TestLoginFailures(t *testing.T) {
	svc, users, _, user := newAuthFixture(t)
	users.On("GetByEmail", mock.Anything, "accountant@example.org").Return(user, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.org").Return(nil, apperrors.NewResourceNotFoundError("user not found"))

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "accountant@example.org", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.org", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	user.IsActive = false
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "accountant@example.org", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, users, tokens, user := newAuthFixture(t)
	tokens.On("GetToken", mock.Anything, "old-token").Return(&models.RefreshToken{Token: "old-token", UserID: 4}, nil)
	users.On("GetByID", mock.Anything, int64(4)).Return(user, nil)
	tokens.On("RevokeToken", mock.Anything, "old-token").Return(nil).Once()
	tokens.On("CreateToken", mock.Anything, mock.MatchedBy(func(tok string) bool { return tok != "old-token" }),
		int64(4), mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := svc.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", resp.RefreshToken)
	tokens.AssertExpectations(t)
}

func TestRefreshRejectsRevoked(t *testing.T) {
	svc, _, tokens, _ := newAuthFixture(t)
	tokens.On("GetToken", mock.Anything, "used").Return(nil, apperrors.ErrTokenRevoked)

	_, err := svc.RefreshToken(context.Background(), "used")
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLogout(t *testing.T) {
	svc, _, tokens, _ := newAuthFixture(t)
	tokens.On("GetToken", mock.Anything, "mine").Return(&models.RefreshToken{Token: "mine", UserID: 4}, nil)
	tokens.On("GetToken", mock.Anything, "theirs").Return(&models.RefreshToken{Token: "theirs", UserID: 5}, nil)
	tokens.On("RevokeToken", mock.Anything, "mine").Return(nil).Once()
	tokens.On("RevokeAllUserTokens", mock.Anything, int64(4)).Return(nil).Once()

	require.NoError(t, svc.Logout(context.Background(), 4, "mine"))
	assert.ErrorIs(t, svc.Logout(context.Background(), 4, "theirs"), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.Logout(context.Background(), 4, ""))
	tokens.AssertExpectations(t)
}
