package repository

import (
	"context"
	"fmt"

	"cyanbot/database"
	"cyanbot/models"
)

// GameRoundRepository implements the GameRoundRepository interface
type GameRoundRepository struct {
	q queryable
}

// NewGameRoundRepository creates a new game round repository
func NewGameRoundRepository(db *database.DB) *GameRoundRepository {
	return &GameRoundRepository{q: db.Pool}
}

func newGameRoundRepositoryWithTx(tx queryable) *GameRoundRepository {
	return &GameRoundRepository{q: tx}
}

// Create logs a settled round
func (r *GameRoundRepository) Create(ctx context.Context, round *models.GameRound) error {
	query := `
		INSERT INTO game_rounds
		(user_id, game, amount, choice, outcome, multiplier, payout, balance_history_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		round.UserID,
		round.Game,
		round.Amount,
		round.Choice,
		round.Outcome,
		round.Multiplier,
		round.Payout,
		round.BalanceHistoryID,
	).Scan(&round.ID, &round.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s round for user %s: %w", round.Game, round.UserID, err)
	}

	return nil
}

// CountByUser returns how many rounds of game a user has played
func (r *GameRoundRepository) CountByUser(ctx context.Context, userID string, game models.Game) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM game_rounds WHERE user_id = $1 AND game = $2`
	if err := r.q.QueryRow(ctx, query, userID, game).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s rounds for user %s: %w", game, userID, err)
	}
	return count, nil
}
