package testutil

import (
	"context"
	"testing"

	"cyanbot/database"
	"cyanbot/models"

	"github.com/stretchr/testify/require"
)

// CreateTestCode returns an unsaved redemption code with all uses remaining
func CreateTestCode(code string, value int64, maxUses int) *models.RedemptionCode {
	return &models.RedemptionCode{
		Code:          code,
		Value:         value,
		MaxUses:       maxUses,
		UsesRemaining: maxUses,
		CreatedBy:     "test-admin",
	}
}

// CreateTestBalanceHistory returns an unsaved history entry
func CreateTestBalanceHistory(userID string, before, after int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ChangeAmount:    after - before,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// SeedAccount inserts an account with the given balance directly
func SeedAccount(t *testing.T, db *database.DB, userID string, balance int64) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO accounts (user_id, balance) VALUES ($1, $2)`, userID, balance)
	require.NoError(t, err)
}
