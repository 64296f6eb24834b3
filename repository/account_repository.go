package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cyanbot/database"
	"cyanbot/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository over the pool
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `id, user_id, balance, last_daily_claim, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Balance,
		&account.LastDailyClaim,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetOrCreateForUpdate locks the account row, inserting it first when missing.
// The lock is held until the surrounding transaction ends.
func (r *AccountRepository) GetOrCreateForUpdate(ctx context.Context, userID string, startingBalance int64) (*models.Account, bool, error) {
	insertQuery := `
		INSERT INTO accounts (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, insertQuery, userID, startingBalance)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account %s: %w", userID, err)
	}
	created := result.RowsAffected() == 1

	selectQuery := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, selectQuery, userID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock account %s: %w", userID, err)
	}

	return account, created, nil
}

// GetByUserID retrieves an account without locking it. Returns nil if absent.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", userID, err)
	}
	return account, nil
}

// UpdateBalance sets an account's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, userID string, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", userID)
	}

	return nil
}

// UpdateDailyClaim sets an account's balance and last daily claim together
func (r *AccountRepository) UpdateDailyClaim(ctx context.Context, userID string, newBalance int64, claimedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $1, last_daily_claim = $2, updated_at = NOW()
		WHERE user_id = $3
	`

	result, err := r.q.Exec(ctx, query, newBalance, claimedAt, userID)
	if err != nil {
		return fmt.Errorf("failed to update daily claim for account %s: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", userID)
	}

	return nil
}

// GetTopByBalance returns the richest accounts, ties in creation order
func (r *AccountRepository) GetTopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY balance DESC, id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
