package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidChoice      = errors.New("invalid coin side")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyClaimed     = errors.New("daily reward already claimed")
	ErrCodeNotFound       = errors.New("redemption code not found")
	ErrCodeExhausted      = errors.New("redemption code exhausted")
	ErrAlreadyRedeemed    = errors.New("redemption code already redeemed")
	ErrCodeExists         = errors.New("redemption code already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrDuplicateCode is returned by RedemptionCodeRepository.Create on a unique violation
	ErrDuplicateCode = errors.New("duplicate redemption code")
)

// CooldownError is returned when the daily reward is claimed again too early
type CooldownError struct {
	NextClaimAt time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: next claim at %s", ErrAlreadyClaimed, e.NextClaimAt.UTC().Format(time.RFC3339))
}

func (e *CooldownError) Unwrap() error {
	return ErrAlreadyClaimed
}

// InsufficientFundsError is returned when a wager exceeds the balance
type InsufficientFundsError struct {
	Balance int64
	Amount  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: balance %d, wager %d", ErrInsufficientFunds, e.Balance, e.Amount)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// storageError marks err as a storage failure while keeping the cause inspectable
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
