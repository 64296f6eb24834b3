package repository

import (
	"context"
	"errors"
	"fmt"

	"cyanbot/database"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// RedemptionCodeRepository implements the RedemptionCodeRepository interface
type RedemptionCodeRepository struct {
	q queryable
}

// NewRedemptionCodeRepository creates a new redemption code repository
func NewRedemptionCodeRepository(db *database.DB) *RedemptionCodeRepository {
	return &RedemptionCodeRepository{q: db.Pool}
}

func newRedemptionCodeRepositoryWithTx(tx queryable) *RedemptionCodeRepository {
	return &RedemptionCodeRepository{q: tx}
}

// Create stores a new redemption code
func (r *RedemptionCodeRepository) Create(ctx context.Context, code *models.RedemptionCode) error {
	query := `
		INSERT INTO redemption_codes (code, value, max_uses, uses_remaining, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		code.Code,
		code.Value,
		code.MaxUses,
		code.UsesRemaining,
		code.CreatedBy,
	).Scan(&code.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create redemption code %s: %w", code.Code, err)
	}

	return nil
}

// GetByCodeForUpdate locks a code row for the rest of the transaction. Returns nil if absent.
func (r *RedemptionCodeRepository) GetByCodeForUpdate(ctx context.Context, code string) (*models.RedemptionCode, error) {
	query := `
		SELECT code, value, max_uses, uses_remaining, created_by, created_at
		FROM redemption_codes
		WHERE code = $1
		FOR UPDATE
	`

	var rc models.RedemptionCode
	err := r.q.QueryRow(ctx, query, code).Scan(
		&rc.Code,
		&rc.Value,
		&rc.MaxUses,
		&rc.UsesRemaining,
		&rc.CreatedBy,
		&rc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption code %s: %w", code, err)
	}

	return &rc, nil
}

// HasRedeemed reports whether userID already redeemed code
func (r *RedemptionCodeRepository) HasRedeemed(ctx context.Context, code, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM code_redemptions WHERE code = $1 AND user_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, code, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check redemption of %s by %s: %w", code, userID, err)
	}
	return exists, nil
}

// RecordRedemption consumes one use of code for userID
func (r *RedemptionCodeRepository) RecordRedemption(ctx context.Context, code, userID string) (int, error) {
	updateQuery := `
		UPDATE redemption_codes
		SET uses_remaining = uses_remaining - 1
		WHERE code = $1 AND uses_remaining > 0
		RETURNING uses_remaining
	`

	var remaining int
	err := r.q.QueryRow(ctx, updateQuery, code).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, service.ErrCodeExhausted
	}
	if err != nil {
		return 0, fmt.Errorf("failed to consume redemption code %s: %w", code, err)
	}

	insertQuery := `INSERT INTO code_redemptions (code, user_id) VALUES ($1, $2)`
	if _, err := r.q.Exec(ctx, insertQuery, code, userID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, service.ErrAlreadyRedeemed
		}
		return 0, fmt.Errorf("failed to record redemption of %s by %s: %w", code, userID, err)
	}

	return remaining, nil
}
