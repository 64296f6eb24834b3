package models

import (
	"time"
)

// Account is a user's Cyan Dollar balance
type Account struct {
	ID             int64      `db:"id"` // Creation order
	UserID         string     `db:"user_id"`
	Balance        int64      `db:"balance"`
	LastDailyClaim *time.Time `db:"last_daily_claim"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// NextDailyClaim returns when the account may next claim the daily reward.
// An account that never claimed returns the zero time.
func (a *Account) NextDailyClaim(cooldown time.Duration) time.Time {
	if a.LastDailyClaim == nil {
		return time.Time{}
	}
	return a.LastDailyClaim.Add(cooldown)
}

// CanClaimDaily reports whether the cooldown has elapsed at now
func (a *Account) CanClaimDaily(now time.Time, cooldown time.Duration) bool {
	if a.LastDailyClaim == nil {
		return true
	}
	return now.Sub(*a.LastDailyClaim) >= cooldown
}

// DailyClaimResult represents the outcome of a daily claim (returned to the user)
type DailyClaimResult struct {
	Reward      int64
	NewBalance  int64
	NextClaimAt time.Time
}

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}
