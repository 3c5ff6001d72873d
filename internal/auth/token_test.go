package auth_test

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dietcare-service/internal/auth"
	"github.com/spec-kit/dietcare-service/internal/domain"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)
}

func testUser() *domain.User {
	return &domain.User{
		ID:     "11111111-2222-3333-4444-555555555555",
		Email:  "alice@example.com",
		Name:   "Alice",
		Role:   domain.RolePatient,
		Active: true,
	}
}

func TestMintPairRoundTrip(t *testing.T) {
	tm := newTestTokenManager()
	user := testUser()

	pair, err := tm.MintPair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	accessClaims, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, accessClaims.UserID)
	assert.Equal(t, user.Email, accessClaims.Email)
	assert.Equal(t, user.Role, accessClaims.Role)
	assert.NotEmpty(t, accessClaims.ID)

	refreshClaims, err := tm.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshClaims.UserID)
	assert.Equal(t, domain.TokenClassRefresh, refreshClaims.Type)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	tm := newTestTokenManager()
	pair, err := tm.MintPair(testUser())
	require.NoError(t, err)

	_, err = tm.ParseRefresh(pair.AccessToken)
	assert.Error(t, err, "access token must not verify under the refresh secret")
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	tm := newTestTokenManager()
	pair, err := tm.MintPair(testUser())
	require.NoError(t, err)

	_, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err, "refresh token must not verify under the access secret")
}

func TestRefreshClassEnforced(t *testing.T) {
	tm := newTestTokenManager()

	// A token signed with the refresh secret but missing the refresh
	// class discriminator must still be rejected.
	claims := jwt.MapClaims{
		"id":  "user-1",
		"sub": "user-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testRefreshSecret))
	require.NoError(t, err)

	_, err = tm.ParseRefresh(tokenStr)
	assert.ErrorIs(t, err, auth.ErrWrongTokenClass)
}

func TestExpiredTokensRejected(t *testing.T) {
	tm := newTestTokenManager()

	expiredAccess := jwt.MapClaims{
		"id":    "user-1",
		"email": "alice@example.com",
		"role":  "PATIENT",
		"sub":   "user-1",
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}
	accessStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredAccess).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = tm.ParseAccess(accessStr)
	assert.Error(t, err, "signature validity does not rescue an expired token")

	expiredRefresh := jwt.MapClaims{
		"id":   "user-1",
		"type": domain.TokenClassRefresh,
		"sub":  "user-1",
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	refreshStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredRefresh).SignedString([]byte(testRefreshSecret))
	require.NoError(t, err)

	_, err = tm.ParseRefresh(refreshStr)
	assert.Error(t, err)
}

func TestForgedTokenRejected(t *testing.T) {
	tm := newTestTokenManager()

	forged := jwt.MapClaims{
		"id":    "user-1",
		"email": "alice@example.com",
		"role":  "ADMIN",
		"sub":   "user-1",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString([]byte("attacker-secret"))
	require.NoError(t, err)

	_, err = tm.ParseAccess(tokenStr)
	assert.Error(t, err)
}
