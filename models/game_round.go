package models

import (
	"fmt"
	"strings"
	"time"
)

// Game identifies a wager game
type Game string

const (
	GameCoinflip Game = "coinflip"
	GameSlots    Game = "slots"
)

// CoinSide is one face of the coin
type CoinSide string

const (
	CoinSideHeads CoinSide = "heads"
	CoinSideTails CoinSide = "tails"
)

// ParseCoinSide accepts heads/tails and their one letter forms
func ParseCoinSide(s string) (CoinSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heads", "head", "h":
		return CoinSideHeads, nil
	case "tails", "tail", "t":
		return CoinSideTails, nil
	default:
		return "", fmt.Errorf("invalid coin side %q", s)
	}
}

// GameRound is a logged coinflip or slots play
type GameRound struct {
	ID               int64     `db:"id"`
	UserID           string    `db:"user_id"`
	Game             Game      `db:"game"`
	Amount           int64     `db:"amount"`
	Choice           string    `db:"choice"`
	Outcome          string    `db:"outcome"`
	Multiplier       int64     `db:"multiplier"`
	Payout           int64     `db:"payout"`
	BalanceHistoryID *int64    `db:"balance_history_id"`
	CreatedAt        time.Time `db:"created_at"`
}

// CoinflipResult represents the outcome of a coinflip (returned to the user)
type CoinflipResult struct {
	Won        bool
	Choice     CoinSide
	Outcome    CoinSide
	Amount     int64
	Payout     int64
	NewBalance int64
}

// SlotsResult represents the outcome of a slots spin (returned to the user)
type SlotsResult struct {
	Reels      [3]string
	Amount     int64
	Multiplier int64
	Payout     int64
	NewBalance int64
}
