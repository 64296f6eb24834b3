package models

import "time"

// RedemptionCode is a shared token redeemable once per user
type RedemptionCode struct {
	Code          string    `db:"code"`
	Value         int64     `db:"value"`
	MaxUses       int       `db:"max_uses"`
	UsesRemaining int       `db:"uses_remaining"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}

// Exhausted reports whether the code has no uses left
func (c *RedemptionCode) Exhausted() bool {
	return c.UsesRemaining <= 0
}

// RedeemResult represents the outcome of a code redemption (returned to the user)
type RedeemResult struct {
	Code          string
	Value         int64
	NewBalance    int64
	UsesRemaining int
}
