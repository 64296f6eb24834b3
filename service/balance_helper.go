package service

import (
	"context"
	"fmt"
	"math"

	"cyanbot/events"
	"cyanbot/models"
)

// RecordBalanceChange records a balance history entry and emits a balance change event.
// Every committed balance mutation goes through here.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Delivered only if the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		ChangeAmount:    history.ChangeAmount,
		TransactionType: history.TransactionType,
	})

	return nil
}

// recordAccountCreated audits a lazily created account
func recordAccountCreated(ctx context.Context, uow UnitOfWork, account *models.Account) error {
	if account.Balance > 0 {
		history := &models.BalanceHistory{
			UserID:          account.UserID,
			BalanceBefore:   0,
			BalanceAfter:    account.Balance,
			ChangeAmount:    account.Balance,
			TransactionType: models.TransactionTypeInitial,
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return err
		}
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		UserID:         account.UserID,
		InitialBalance: account.Balance,
	})
	return nil
}

// addBalance returns balance+delta, rejecting results that overflow or go negative
func addBalance(balance, delta int64) (int64, error) {
	if delta > 0 && balance > math.MaxInt64-delta {
		return 0, fmt.Errorf("%w: balance would overflow", ErrInvalidAmount)
	}
	result := balance + delta
	if result < 0 {
		return 0, &InsufficientFundsError{Balance: balance, Amount: -delta}
	}
	return result, nil
}

// multiplyStake returns amount*multiplier, rejecting overflow
func multiplyStake(amount, multiplier int64) (int64, error) {
	if multiplier != 0 && amount > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%w: payout would overflow", ErrInvalidAmount)
	}
	return amount * multiplier, nil
}
