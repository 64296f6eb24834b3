package repository

import (
	"context"
	"testing"

	"cyanbot/repository/testutil"
	"cyanbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedemptionCodeRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewRedemptionCodeRepository(testDB.DB)
	ctx := context.Background()

	code := testutil.CreateTestCode("WELCOME", 100, 3)
	require.NoError(t, repo.Create(ctx, code))
	assert.False(t, code.CreatedAt.IsZero())

	err := repo.Create(ctx, testutil.CreateTestCode("WELCOME", 5, 1))
	assert.ErrorIs(t, err, service.ErrDuplicateCode)
}

func TestRedemptionCodeRepository_GetByCodeForUpdate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewRedemptionCodeRepository(testDB.DB)
	ctx := context.Background()

	missing, err := repo.GetByCodeForUpdate(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestCode("SPRING", 40, 2)))

	code, err := repo.GetByCodeForUpdate(ctx, "SPRING")
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.Equal(t, int64(40), code.Value)
	assert.Equal(t, 2, code.MaxUses)
	assert.Equal(t, 2, code.UsesRemaining)
	assert.Equal(t, "test-admin", code.CreatedBy)
}

func TestRedemptionCodeRepository_RecordRedemption(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewRedemptionCodeRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedAccount(t, testDB.DB, "alice", 0)
	testutil.SeedAccount(t, testDB.DB, "bob", 0)
	testutil.SeedAccount(t, testDB.DB, "carol", 0)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestCode("PAIR", 10, 2)))

	redeemed, err := repo.HasRedeemed(ctx, "PAIR", "alice")
	require.NoError(t, err)
	assert.False(t, redeemed)

	remaining, err := repo.RecordRedemption(ctx, "PAIR", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	redeemed, err = repo.HasRedeemed(ctx, "PAIR", "alice")
	require.NoError(t, err)
	assert.True(t, redeemed)

	t.Run("same user twice", func(t *testing.T) {
		tx, err := testDB.DB.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		_, err = newRedemptionCodeRepositoryWithTx(tx).RecordRedemption(ctx, "PAIR", "alice")
		assert.ErrorIs(t, err, service.ErrAlreadyRedeemed)
	})

	remaining, err = repo.RecordRedemption(ctx, "PAIR", "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = repo.RecordRedemption(ctx, "PAIR", "carol")
	assert.ErrorIs(t, err, service.ErrCodeExhausted)
}
