package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  exp,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "scholaris-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	programID := int64(2)
	svc := newTestService(time.Minute)
	user := &models.User{ID: 7, Email: "admin@office.gov.ph", Role: models.RoleAdmin, ProgramID: &programID}

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.Len(t, pair.RefreshToken, 64)
	assert.Equal(t, int64(60), pair.ExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	require.NotNil(t, claims.ProgramID)
	assert.Equal(t, programID, *claims.ProgramID)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	pair, err := svc.GenerateTokenPair(&models.User{ID: 1, Email: "a@b.c", Role: models.RoleStaff})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	pair, err := newTestService(time.Minute).GenerateTokenPair(&models.User{ID: 1, Email: "a@b.c", Role: models.RoleStaff})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute, TokenIssuer: "scholaris-test"})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = ExtractBearerToken("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	_, err = ExtractBearerToken("Basic xyz")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = 4
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
