package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cyanbot/events"
	"cyanbot/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 25
	DefaultHistorySize     = 10
	MaxHistorySize         = 25
)

// LedgerConfig holds the economy settings of the ledger
type LedgerConfig struct {
	StartingBalance    int64
	DailyReward        int64
	DailyCooldown      time.Duration
	MinBet             int64
	MaxBet             int64 // 0 disables the upper bound
	CoinflipMultiplier int64
	Paytable           Paytable
}

// DefaultLedgerConfig returns the stock economy
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		StartingBalance:    0,
		DailyReward:        50,
		DailyCooldown:      24 * time.Hour,
		MinBet:             1,
		MaxBet:             0,
		CoinflipMultiplier: 2,
		Paytable:           DefaultPaytable(),
	}
}

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	cfg        LedgerConfig
	rng        RandomSource
	locks      *keyedMutex
}

// NewLedgerService creates a ledger over the given storage and random source
func NewLedgerService(uowFactory UnitOfWorkFactory, cfg LedgerConfig, rng RandomSource) (LedgerService, error) {
	if err := cfg.Paytable.Validate(); err != nil {
		return nil, fmt.Errorf("invalid slots paytable: %w", err)
	}
	if cfg.DailyCooldown <= 0 {
		return nil, fmt.Errorf("daily cooldown must be positive")
	}
	if cfg.MinBet < 1 {
		cfg.MinBet = 1
	}

	return &ledgerService{
		uowFactory: uowFactory,
		cfg:        cfg,
		rng:        rng,
		locks:      newKeyedMutex(),
	}, nil
}

// accountTxFunc runs inside a transaction holding the account row lock
type accountTxFunc func(uow UnitOfWork, account *models.Account) error

// withLockedAccount serializes fn against every other mutation of userID.
// extraKeys are locked after the account, in order. fn's error aborts the transaction.
func (s *ledgerService) withLockedAccount(ctx context.Context, userID string, extraKeys []string, fn accountTxFunc) error {
	keys := append([]string{accountLockKey(userID)}, extraKeys...)
	unlock := s.locks.Lock(keys...)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storageError("begin transaction", err)
	}
	defer uow.Rollback()

	account, created, err := uow.AccountRepository().GetOrCreateForUpdate(ctx, userID, s.cfg.StartingBalance)
	if err != nil {
		return storageError("load account", err)
	}
	if created {
		if err := recordAccountCreated(ctx, uow, account); err != nil {
			return storageError("record account creation", err)
		}
	}

	if err := fn(uow, account); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return storageError("commit transaction", err)
	}
	return nil
}

// GetBalance returns the user's balance, creating the account if needed
func (s *ledgerService) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.withLockedAccount(ctx, userID, nil, func(uow UnitOfWork, account *models.Account) error {
		balance = account.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// ClaimDaily credits the daily reward if the cooldown has elapsed at now
func (s *ledgerService) ClaimDaily(ctx context.Context, userID string, now time.Time) (*models.DailyClaimResult, error) {
	var result *models.DailyClaimResult
	err := s.withLockedAccount(ctx, userID, nil, func(uow UnitOfWork, account *models.Account) error {
		if !account.CanClaimDaily(now, s.cfg.DailyCooldown) {
			return &CooldownError{NextClaimAt: account.NextDailyClaim(s.cfg.DailyCooldown)}
		}

		newBalance, err := addBalance(account.Balance, s.cfg.DailyReward)
		if err != nil {
			return err
		}

		if err := uow.AccountRepository().UpdateDailyClaim(ctx, userID, newBalance, now); err != nil {
			return storageError("update daily claim", err)
		}

		history := &models.BalanceHistory{
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    newBalance,
			ChangeAmount:    s.cfg.DailyReward,
			TransactionType: models.TransactionTypeDailyReward,
			TransactionMetadata: map[string]any{
				"claimed_at": now.UTC().Format(time.RFC3339),
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return storageError("record daily reward", err)
		}

		result = &models.DailyClaimResult{
			Reward:      s.cfg.DailyReward,
			NewBalance:  newBalance,
			NextClaimAt: now.Add(s.cfg.DailyCooldown),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateWager checks the stake against the configured bet bounds
func (s *ledgerService) validateWager(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: wager must be positive, got %d", ErrInvalidAmount, amount)
	}
	if amount < s.cfg.MinBet {
		return fmt.Errorf("%w: minimum wager is %d", ErrInvalidAmount, s.cfg.MinBet)
	}
	if s.cfg.MaxBet > 0 && amount > s.cfg.MaxBet {
		return fmt.Errorf("%w: maximum wager is %d", ErrInvalidAmount, s.cfg.MaxBet)
	}
	return nil
}

// settleWager applies a stake and payout to a locked account and logs the round.
// It returns the new balance.
func (s *ledgerService) settleWager(ctx context.Context, uow UnitOfWork, account *models.Account, round *models.GameRound, txType models.TransactionType) (int64, error) {
	newBalance, err := addBalance(account.Balance, round.Payout-round.Amount)
	if err != nil {
		return 0, err
	}

	if err := uow.AccountRepository().UpdateBalance(ctx, account.UserID, newBalance); err != nil {
		return 0, storageError("update balance", err)
	}

	history := &models.BalanceHistory{
		UserID:          account.UserID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    newBalance - account.Balance,
		TransactionType: txType,
		TransactionMetadata: map[string]any{
			"game":       string(round.Game),
			"amount":     round.Amount,
			"choice":     round.Choice,
			"outcome":    round.Outcome,
			"multiplier": round.Multiplier,
			"payout":     round.Payout,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return 0, storageError("record wager", err)
	}

	round.UserID = account.UserID
	round.BalanceHistoryID = &history.ID
	if err := uow.GameRoundRepository().Create(ctx, round); err != nil {
		return 0, storageError("record game round", err)
	}

	uow.EventBus().Publish(events.GamePlayedEvent{
		UserID:     account.UserID,
		RoundID:    round.ID,
		Game:       round.Game,
		Amount:     round.Amount,
		Multiplier: round.Multiplier,
		Payout:     round.Payout,
		Outcome:    round.Outcome,
	})

	return newBalance, nil
}

// WagerCoinflip stakes amount on a fair coin toss
func (s *ledgerService) WagerCoinflip(ctx context.Context, userID string, amount int64, choice models.CoinSide) (*models.CoinflipResult, error) {
	if choice != models.CoinSideHeads && choice != models.CoinSideTails {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	if err := s.validateWager(amount); err != nil {
		return nil, err
	}

	var result *models.CoinflipResult
	err := s.withLockedAccount(ctx, userID, nil, func(uow UnitOfWork, account *models.Account) error {
		if amount > account.Balance {
			return &InsufficientFundsError{Balance: account.Balance, Amount: amount}
		}

		outcome := models.CoinSideHeads
		if s.rng.Intn(2) == 1 {
			outcome = models.CoinSideTails
		}
		won := outcome == choice

		var payout int64
		txType := models.TransactionTypeCoinflipLoss
		if won {
			var err error
			if payout, err = multiplyStake(amount, s.cfg.CoinflipMultiplier); err != nil {
				return err
			}
			txType = models.TransactionTypeCoinflipWin
		}

		round := &models.GameRound{
			Game:       models.GameCoinflip,
			Amount:     amount,
			Choice:     string(choice),
			Outcome:    string(outcome),
			Multiplier: 0,
			Payout:     payout,
		}
		if won {
			round.Multiplier = s.cfg.CoinflipMultiplier
		}

		newBalance, err := s.settleWager(ctx, uow, account, round, txType)
		if err != nil {
			return err
		}

		result = &models.CoinflipResult{
			Won:        won,
			Choice:     choice,
			Outcome:    outcome,
			Amount:     amount,
			Payout:     payout,
			NewBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"amount":      amount,
		"won":         result.Won,
		"new_balance": result.NewBalance,
	}).Debug("Coinflip settled")

	return result, nil
}

// WagerSlots stakes amount on a three reel spin
func (s *ledgerService) WagerSlots(ctx context.Context, userID string, amount int64) (*models.SlotsResult, error) {
	if err := s.validateWager(amount); err != nil {
		return nil, err
	}

	var result *models.SlotsResult
	err := s.withLockedAccount(ctx, userID, nil, func(uow UnitOfWork, account *models.Account) error {
		if amount > account.Balance {
			return &InsufficientFundsError{Balance: account.Balance, Amount: amount}
		}

		reels := s.cfg.Paytable.Spin(s.rng)
		multiplier := s.cfg.Paytable.Multiplier(reels)
		payout, err := multiplyStake(amount, multiplier)
		if err != nil {
			return err
		}

		txType := models.TransactionTypeSlotsLoss
		switch {
		case payout > amount:
			txType = models.TransactionTypeSlotsWin
		case payout == amount:
			txType = models.TransactionTypeSlotsPush
		}

		round := &models.GameRound{
			Game:       models.GameSlots,
			Amount:     amount,
			Outcome:    strings.Join(reels[:], " "),
			Multiplier: multiplier,
			Payout:     payout,
		}

		newBalance, err := s.settleWager(ctx, uow, account, round, txType)
		if err != nil {
			return err
		}

		result = &models.SlotsResult{
			Reels:      reels,
			Amount:     amount,
			Multiplier: multiplier,
			Payout:     payout,
			NewBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"amount":      amount,
		"multiplier":  result.Multiplier,
		"new_balance": result.NewBalance,
	}).Debug("Slots settled")

	return result, nil
}

// RedeemCode credits a redemption code's value once per user
func (s *ledgerService) RedeemCode(ctx context.Context, userID string, code string) (*models.RedeemResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeNotFound
	}

	var result *models.RedeemResult
	err := s.withLockedAccount(ctx, userID, []string{codeLockKey(code)}, func(uow UnitOfWork, account *models.Account) error {
		codeRepo := uow.RedemptionCodeRepository()

		redemptionCode, err := codeRepo.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return storageError("load redemption code", err)
		}
		if redemptionCode == nil {
			return ErrCodeNotFound
		}

		redeemed, err := codeRepo.HasRedeemed(ctx, code, userID)
		if err != nil {
			return storageError("check redemption", err)
		}
		if redeemed {
			return ErrAlreadyRedeemed
		}
		if redemptionCode.Exhausted() {
			return ErrCodeExhausted
		}

		newBalance, err := addBalance(account.Balance, redemptionCode.Value)
		if err != nil {
			return err
		}

		usesRemaining, err := codeRepo.RecordRedemption(ctx, code, userID)
		if errors.Is(err, ErrCodeExhausted) || errors.Is(err, ErrAlreadyRedeemed) {
			return err
		}
		if err != nil {
			return storageError("record redemption", err)
		}
		if err := uow.AccountRepository().UpdateBalance(ctx, userID, newBalance); err != nil {
			return storageError("update balance", err)
		}

		history := &models.BalanceHistory{
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    newBalance,
			ChangeAmount:    redemptionCode.Value,
			TransactionType: models.TransactionTypeCodeRedeem,
			TransactionMetadata: map[string]any{
				"code": code,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return storageError("record redemption history", err)
		}

		uow.EventBus().Publish(events.CodeRedeemedEvent{
			UserID:        userID,
			Code:          code,
			Value:         redemptionCode.Value,
			UsesRemaining: usesRemaining,
		})

		result = &models.RedeemResult{
			Code:          code,
			Value:         redemptionCode.Value,
			NewBalance:    newBalance,
			UsesRemaining: usesRemaining,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":        userID,
		"code":           code,
		"value":          result.Value,
		"uses_remaining": result.UsesRemaining,
	}).Info("Redemption code redeemed")

	return result, nil
}

// Leaderboard returns the top accounts by balance, ties in creation order
func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	limit = clampLimit(limit, DefaultLeaderboardSize, MaxLeaderboardSize)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().GetTopByBalance(ctx, limit)
	if err != nil {
		return nil, storageError("load leaderboard", err)
	}

	entries := make([]*models.LeaderboardEntry, len(accounts))
	for i, account := range accounts {
		entries[i] = &models.LeaderboardEntry{
			Rank:    i + 1,
			UserID:  account.UserID,
			Balance: account.Balance,
		}
	}
	return entries, nil
}

// History returns the user's most recent balance changes
func (s *ledgerService) History(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	limit = clampLimit(limit, DefaultHistorySize, MaxHistorySize)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	history, err := uow.BalanceHistoryRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, storageError("load history", err)
	}
	return history, nil
}

// SetBalance overwrites a user's balance on behalf of an administrator
func (s *ledgerService) SetBalance(ctx context.Context, actorID, userID string, newBalance int64) (*models.BalanceHistory, error) {
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: balance cannot be negative", ErrInvalidAmount)
	}

	var history *models.BalanceHistory
	err := s.withLockedAccount(ctx, userID, nil, func(uow UnitOfWork, account *models.Account) error {
		if err := uow.AccountRepository().UpdateBalance(ctx, userID, newBalance); err != nil {
			return storageError("update balance", err)
		}

		history = &models.BalanceHistory{
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    newBalance,
			ChangeAmount:    newBalance - account.Balance,
			TransactionType: models.TransactionTypeAdminAdjustment,
			TransactionMetadata: map[string]any{
				"actor_id": actorID,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return storageError("record adjustment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"actor_id":    actorID,
		"user_id":     userID,
		"old_balance": history.BalanceBefore,
		"new_balance": newBalance,
	}).Info("Balance set by administrator")

	return history, nil
}

// CreateCode adds a redemption code. An empty code is generated.
func (s *ledgerService) CreateCode(ctx context.Context, actorID, code string, value int64, maxUses int) (*models.RedemptionCode, error) {
	if value <= 0 {
		return nil, fmt.Errorf("%w: code value must be positive", ErrInvalidAmount)
	}
	if maxUses <= 0 {
		return nil, fmt.Errorf("%w: code uses must be positive", ErrInvalidAmount)
	}
	// uses are stored as INTEGER
	if maxUses > math.MaxInt32 {
		return nil, fmt.Errorf("%w: a code can have at most %d uses", ErrInvalidAmount, math.MaxInt32)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		code = GenerateCode()
	}

	unlock := s.locks.Lock(codeLockKey(code))
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	redemptionCode := &models.RedemptionCode{
		Code:          code,
		Value:         value,
		MaxUses:       maxUses,
		UsesRemaining: maxUses,
		CreatedBy:     actorID,
	}
	if err := uow.RedemptionCodeRepository().Create(ctx, redemptionCode); err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			return nil, fmt.Errorf("%w: %s", ErrCodeExists, code)
		}
		return nil, storageError("create redemption code", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storageError("commit transaction", err)
	}

	log.WithFields(log.Fields{
		"actor_id": actorID,
		"code":     code,
		"value":    value,
		"max_uses": maxUses,
	}).Info("Redemption code created")

	return redemptionCode, nil
}

// GenerateCode returns a random code of the form CYAN-XXXXXXXX
func GenerateCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CYAN-" + strings.ToUpper(id[:8])
}

func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
