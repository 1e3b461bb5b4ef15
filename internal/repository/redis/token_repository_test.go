package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRepo(t *testing.T) (*TokenRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewTokenRepository(client), mr
}

func sampleTokenData(userID, token string) TokenData {
	now := time.Now()
	return TokenData{
		UserID:    userID,
		Role:      "customer",
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		IPAddress: "127.0.0.1",
		UserAgent: "go-test",
	}
}

func TestStoreAndValidateToken(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "1", "tok-abc", sampleTokenData("1", "tok-abc"), time.Hour))

	userID, err := repo.ValidateToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "1", userID)

	data, err := repo.GetTokenData(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", data.Token)
	assert.Equal(t, "customer", data.Role)
	assert.Equal(t, "127.0.0.1", data.IPAddress)
}

func TestValidateUnknownToken(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	_, err := repo.ValidateToken(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "token not found or expired", err.Error())
}

func TestDeleteTokenRemovesBothMappings(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "1", "tok-abc", sampleTokenData("1", "tok-abc"), time.Hour))
	require.NoError(t, repo.DeleteToken(ctx, "1", "tok-abc"))

	_, err := repo.ValidateToken(ctx, "tok-abc")
	require.Error(t, err)

	_, err = repo.GetTokenData(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, "token not found", err.Error())
}

func TestRotateTokenInvalidatesOldLookup(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "1", "tok-old", sampleTokenData("1", "tok-old"), time.Hour))
	require.NoError(t, repo.RotateToken(ctx, "1", "tok-old", "tok-new", sampleTokenData("1", "tok-new"), time.Hour))

	_, err := repo.ValidateToken(ctx, "tok-old")
	require.Error(t, err)

	userID, err := repo.ValidateToken(ctx, "tok-new")
	require.NoError(t, err)
	assert.Equal(t, "1", userID)

	data, err := repo.GetTokenData(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", data.Token)
}

func TestTokenExpiry(t *testing.T) {
	repo, mr := setupTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "1", "tok-abc", sampleTokenData("1", "tok-abc"), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := repo.ValidateToken(ctx, "tok-abc")
	require.Error(t, err)

	_, err = repo.GetTokenData(ctx, "1")
	require.Error(t, err)
}
