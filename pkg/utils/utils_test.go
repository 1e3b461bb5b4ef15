package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)

	assert.NotEqual(t, "supersecret", hash)
	assert.True(t, CheckPassword("supersecret", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := GenerateJWT("42", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	expAt, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expAt.Time, time.Minute)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-one", time.Hour)
	token, err := GenerateJWT("42", "customer")
	require.NoError(t, err)

	InitJWT("secret-two", time.Hour)
	_, err = ParseJWT(token)
	require.Error(t, err)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	_, err := ParseJWT("not.a.token")
	require.Error(t, err)
}
