package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial         TransactionType = "initial"
	TransactionTypeDailyReward     TransactionType = "daily_reward"
	TransactionTypeCoinflipWin     TransactionType = "coinflip_win"
	TransactionTypeCoinflipLoss    TransactionType = "coinflip_loss"
	TransactionTypeSlotsWin        TransactionType = "slots_win"
	TransactionTypeSlotsLoss       TransactionType = "slots_loss"
	TransactionTypeSlotsPush       TransactionType = "slots_push"
	TransactionTypeCodeRedeem      TransactionType = "code_redeem"
	TransactionTypeAdminAdjustment TransactionType = "admin_adjustment"
)

// Label returns a short human readable name for the transaction type
func (t TransactionType) Label() string {
	switch t {
	case TransactionTypeInitial:
		return "Starting balance"
	case TransactionTypeDailyReward:
		return "Daily reward"
	case TransactionTypeCoinflipWin:
		return "Coinflip win"
	case TransactionTypeCoinflipLoss:
		return "Coinflip loss"
	case TransactionTypeSlotsWin:
		return "Slots win"
	case TransactionTypeSlotsLoss:
		return "Slots loss"
	case TransactionTypeSlotsPush:
		return "Slots push"
	case TransactionTypeCodeRedeem:
		return "Code redeemed"
	case TransactionTypeAdminAdjustment:
		return "Admin adjustment"
	default:
		return string(t)
	}
}

// BalanceHistory is one audited balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              string          `db:"user_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
