package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/ens"
	"github.com/brightlend/naming-service/internal/repository"
	"github.com/brightlend/naming-service/internal/repository/postgres"
	"github.com/brightlend/naming-service/internal/service"
	"github.com/brightlend/naming-service/internal/testutil"
)

// failingUpdateUserRepo rejects every Update call, standing in for a
// store outage between chain confirmation and persistence.
type failingUpdateUserRepo struct {
	repository.UserRepository
}

func (r *failingUpdateUserRepo) Update(ctx context.Context, user *domain.User) error {
	return errors.New("connection reset")
}

const testWallet = "0xABCDEF0123456789000000000000000000000001"

func TestNamingService_RegisterName(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	t.Run("generated label", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		namingService := service.NewNamingService(repos.User, repos.Registration, registrar)

		user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

		result, err := namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:        user.ID.String(),
			WalletAddress: testWallet,
		})
		require.NoError(t, err)
		assert.Equal(t, "userabcdef01", result.Subdomain)
		assert.Equal(t, "userabcdef01.brightlend.eth", result.FullDomain)
		assert.NotEmpty(t, result.TxHash)

		// Binding persisted and on-chain target set
		updated, err := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "userabcdef01", updated.ENSSubdomain)
		assert.Equal(t, common.HexToAddress(testWallet), registrar.Registered["userabcdef01"])

		// Audit row reached the terminal state
		regs, err := repos.Registration.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, regs, 1)
		assert.Equal(t, domain.RegistrationCompleted, regs[0].Status)
		assert.Equal(t, result.TxHash, regs[0].TxHash)
	})

	t.Run("already registered", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		namingService := service.NewNamingService(repos.User, repos.Registration, registrar)

		user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

		first, err := namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:        user.ID.String(),
			WalletAddress: testWallet,
		})
		require.NoError(t, err)

		_, err = namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:        user.ID.String(),
			WalletAddress: testWallet,
		})
		var already *service.AlreadyRegisteredError
		require.ErrorAs(t, err, &already)
		assert.Equal(t, first.Subdomain, already.Subdomain)
		assert.Equal(t, first.FullDomain, already.FullDomain)
		assert.Equal(t, 1, registrar.Calls, "no second on-chain sequence")
	})

	t.Run("custom subdomain", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		namingService := service.NewNamingService(repos.User, repos.Registration, registrar)

		user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

		result, err := namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:          user.ID.String(),
			WalletAddress:   testWallet,
			CustomSubdomain: "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", result.Subdomain)
		assert.Equal(t, "alice.brightlend.eth", result.FullDomain)
	})

	t.Run("invalid custom subdomain rejected before chain", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		namingService := service.NewNamingService(repos.User, repos.Registration, registrar)

		user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

		_, err := namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:          user.ID.String(),
			WalletAddress:   testWallet,
			CustomSubdomain: "AB",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidSubdomain)
		assert.Equal(t, 0, registrar.Calls)
	})

	t.Run("taken custom subdomain falls back to generated label", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		namingService := service.NewNamingService(repos.User, repos.Registration, registrar)

		testutil.NewUserBuilder().WithSubdomain("alice").Build(t, testDB.DB)
		user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

		result, err := namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:          user.ID.String(),
			WalletAddress:   testWallet,
			CustomSubdomain: "alice",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Subdomain, "userabcdef01"))
		assert.Greater(t, len(result.Subdomain), len("userabcdef01"))
		assert.True(t, ens.IsValidLabel(result.Subdomain))
	})

	t.Run("on-chain failure leaves record untouched", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		registrar.FailStep = 2
		namingService := service.NewNamingService(repos.User, repos.Registration, registrar)

		user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

		_, err := namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:        user.ID.String(),
			WalletAddress: testWallet,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "setResolver")

		updated, getErr := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, getErr)
		assert.Empty(t, updated.ENSSubdomain)

		regs, getErr := repos.Registration.GetByUserID(ctx, user.ID)
		require.NoError(t, getErr)
		require.Len(t, regs, 1)
		assert.Equal(t, domain.RegistrationFailed, regs[0].Status)
		assert.Contains(t, regs[0].FailReason, "setResolver")
	})

	t.Run("user update failure after on-chain success still succeeds", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		userRepo := &failingUpdateUserRepo{UserRepository: repos.User}
		namingService := service.NewNamingService(userRepo, repos.Registration, registrar)

		user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

		result, err := namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:        user.ID.String(),
			WalletAddress: testWallet,
		})
		require.NoError(t, err)
		assert.Equal(t, "userabcdef01", result.Subdomain)
		assert.NotEmpty(t, result.TxHash)

		// Chain state holds the binding; the user row is stale
		assert.Equal(t, common.HexToAddress(testWallet), registrar.Registered["userabcdef01"])
		updated, getErr := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, getErr)
		assert.Empty(t, updated.ENSSubdomain)

		// Audit row still completes, skipping the persisted state
		regs, getErr := repos.Registration.GetByUserID(ctx, user.ID)
		require.NoError(t, getErr)
		require.Len(t, regs, 1)
		assert.Equal(t, domain.RegistrationCompleted, regs[0].Status)
		assert.Equal(t, result.TxHash, regs[0].TxHash)
	})

	t.Run("input validation", func(t *testing.T) {
		testDB.Truncate(t)
		registrar := testutil.NewFakeRegistrar("brightlend.eth")
		namingService := service.NewNamingService(repos.User, repos.Registration, registrar)

		_, err := namingService.RegisterName(ctx, service.RegisterNameInput{WalletAddress: testWallet})
		assert.ErrorIs(t, err, domain.ErrMissingFields)

		_, err = namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:        uuid.New().String(),
			WalletAddress: "not-an-address",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)

		_, err = namingService.RegisterName(ctx, service.RegisterNameInput{
			UserID:        uuid.New().String(),
			WalletAddress: testWallet,
		})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		assert.Equal(t, 0, registrar.Calls)
	})
}

func TestNamingService_CheckAvailability(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	registrar := testutil.NewFakeRegistrar("brightlend.eth")
	namingService := service.NewNamingService(repos.User, repos.Registration, registrar)
	ctx := context.Background()

	t.Run("malformed label", func(t *testing.T) {
		testDB.Truncate(t)
		_, err := namingService.CheckAvailability(ctx, "ab")
		assert.ErrorIs(t, err, domain.ErrInvalidSubdomain)
	})

	t.Run("free label", func(t *testing.T) {
		testDB.Truncate(t)
		result, err := namingService.CheckAvailability(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Equal(t, "alice", result.Subdomain)
		assert.Equal(t, "alice.brightlend.eth", result.FullDomain)
	})

	t.Run("taken label", func(t *testing.T) {
		testDB.Truncate(t)
		testutil.NewUserBuilder().WithSubdomain("alice").Build(t, testDB.DB)

		result, err := namingService.CheckAvailability(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, result.Available)
	})
}

func TestNamingService_Resolve(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	registrar := testutil.NewFakeRegistrar("brightlend.eth")
	namingService := service.NewNamingService(repos.User, repos.Registration, registrar)
	ctx := context.Background()

	user := testutil.NewUserBuilder().WithWallet(testWallet).Build(t, testDB.DB)

	result, err := namingService.RegisterName(ctx, service.RegisterNameInput{
		UserID:        user.ID.String(),
		WalletAddress: testWallet,
	})
	require.NoError(t, err)

	addr, err := namingService.Resolve(ctx, result.FullDomain)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testWallet), addr)

	_, err = namingService.Resolve(ctx, "nobody.brightlend.eth")
	assert.ErrorIs(t, err, service.ErrNameNotResolved)
}
