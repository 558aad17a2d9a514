package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/repository/postgres"
	"github.com/brightlend/naming-service/internal/service"
	"github.com/brightlend/naming-service/internal/testutil"
)

func TestUserService_Sync(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	userService := service.NewUserService(repos.User, cfg)
	ctx := context.Background()

	t.Run("creates user on first sync", func(t *testing.T) {
		testDB.Truncate(t)

		result, err := userService.Sync(ctx, service.SyncInput{
			PrivyUserID:   "did:privy:abc123",
			WalletAddress: testWallet,
			Email:         "alice@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "did:privy:abc123", result.User.PrivyUserID)
		assert.Equal(t, testWallet, result.User.WalletAddress)
		assert.Equal(t, 500, result.User.CreditScore)
		assert.NotEmpty(t, result.AccessToken)

		claims, err := userService.ValidateToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), (*claims)["sub"])
	})

	t.Run("updates existing user", func(t *testing.T) {
		testDB.Truncate(t)

		first, err := userService.Sync(ctx, service.SyncInput{
			PrivyUserID:   "did:privy:abc123",
			WalletAddress: testWallet,
		})
		require.NoError(t, err)

		second, err := userService.Sync(ctx, service.SyncInput{
			PrivyUserID:   "did:privy:abc123",
			WalletAddress: testWallet,
			Email:         "alice@example.com",
			PhoneNumber:   "+15550001111",
		})
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, second.User.ID)
		assert.Equal(t, "alice@example.com", second.User.Email)
		assert.Equal(t, "+15550001111", second.User.PhoneNumber)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := userService.Sync(ctx, service.SyncInput{WalletAddress: testWallet})
		assert.ErrorIs(t, err, domain.ErrMissingFields)

		_, err = userService.Sync(ctx, service.SyncInput{
			PrivyUserID:   "did:privy:abc123",
			WalletAddress: "nope",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})
}

func TestUserService_ValidateToken(t *testing.T) {
	cfg := testutil.TestConfig()
	userService := service.NewUserService(nil, cfg)

	_, err := userService.ValidateToken("not-a-token")
	assert.Error(t, err)
}
