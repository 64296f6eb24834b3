package service

import (
	"context"
	"time"

	"cyanbot/events"
	"cyanbot/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetOrCreateForUpdate returns the account row locked for the rest of the transaction,
	// inserting it with startingBalance first if it does not exist. created reports the insert.
	GetOrCreateForUpdate(ctx context.Context, userID string, startingBalance int64) (account *models.Account, created bool, err error)

	// UpdateBalance sets the balance of an existing account
	UpdateBalance(ctx context.Context, userID string, newBalance int64) error

	// UpdateDailyClaim sets the balance and daily claim timestamp together
	UpdateDailyClaim(ctx context.Context, userID string, newBalance int64, claimedAt time.Time) error

	// GetTopByBalance returns accounts ordered by balance descending, then creation order
	GetTopByBalance(ctx context.Context, limit int) ([]*models.Account, error)
}

// RedemptionCodeRepository defines the interface for redemption code data access
type RedemptionCodeRepository interface {
	// Create stores a new code. Returns ErrDuplicateCode if the code already exists.
	Create(ctx context.Context, code *models.RedemptionCode) error

	// GetByCodeForUpdate returns the code locked for the rest of the transaction, or nil if absent
	GetByCodeForUpdate(ctx context.Context, code string) (*models.RedemptionCode, error)

	// HasRedeemed reports whether the user already redeemed the code
	HasRedeemed(ctx context.Context, code, userID string) (bool, error)

	// RecordRedemption decrements uses_remaining and adds the user to the code's redeemers
	RecordRedemption(ctx context.Context, code, userID string) (usesRemaining int, err error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record stores a balance change and fills in its ID and CreatedAt
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent entries for a user, newest first
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error)
}

// GameRoundRepository defines the interface for the games log
type GameRoundRepository interface {
	Create(ctx context.Context, round *models.GameRound) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork manages a single transaction and the repositories bound to it
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	RedemptionCodeRepository() RedemptionCodeRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	GameRoundRepository() GameRoundRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// LedgerService owns all balance state and mutation logic
type LedgerService interface {
	// GetBalance returns the user's balance, creating the account if needed
	GetBalance(ctx context.Context, userID string) (int64, error)

	// ClaimDaily credits the daily reward if the cooldown has elapsed at now
	ClaimDaily(ctx context.Context, userID string, now time.Time) (*models.DailyClaimResult, error)

	// WagerCoinflip stakes amount on a fair coin toss
	WagerCoinflip(ctx context.Context, userID string, amount int64, choice models.CoinSide) (*models.CoinflipResult, error)

	// WagerSlots stakes amount on a three reel spin
	WagerSlots(ctx context.Context, userID string, amount int64) (*models.SlotsResult, error)

	// RedeemCode credits a redemption code's value once per user
	RedeemCode(ctx context.Context, userID string, code string) (*models.RedeemResult, error)

	// Leaderboard returns the top accounts by balance
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// History returns the user's most recent balance changes
	History(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error)

	// SetBalance overwrites a user's balance on behalf of an administrator
	SetBalance(ctx context.Context, actorID, userID string, newBalance int64) (*models.BalanceHistory, error)

	// CreateCode adds a redemption code. An empty code is generated.
	CreateCode(ctx context.Context, actorID, code string, value int64, maxUses int) (*models.RedemptionCode, error)
}
