package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-server/config"
	"clinic-server/models"
)

func TestGenerateTokenPair(t *testing.T) {
	setTestConfig(t, true)
	ts := NewTokenService()

	user := &models.User{ID: 42, Role: models.RolePractitioner}
	pair, err := ts.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := ts.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, string(models.RolePractitioner), claims.Role)

	userID, err := ts.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	setTestConfig(t, true)
	ts := NewTokenService()

	pair, err := ts.GenerateTokenPair(&models.User{ID: 7, Role: models.RolePatient})
	require.NoError(t, err)

	// Distinct secrets: a refresh token must not verify as an access
	// token, and vice versa.
	_, err = ts.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = ts.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbled(t *testing.T) {
	setTestConfig(t, true)
	ts := NewTokenService()

	_, err := ts.ValidateAccessToken("not-a-token")
	assert.Error(t, err)

	_, err = ts.ValidateRefreshToken("")
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	setTestConfig(t, true)
	config.AppConfig.JWT.AccessExpiryMin = -1
	ts := NewTokenService()

	token, _, err := ts.GenerateAccessToken(&models.User{ID: 7, Role: models.RolePatient})
	require.NoError(t, err)

	// NotBefore is in the past too, so only the expiry can fail this.
	time.Sleep(10 * time.Millisecond)
	_, err = ts.ValidateAccessToken(token)
	assert.Error(t, err)
}
