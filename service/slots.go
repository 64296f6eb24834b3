package service

import (
	"fmt"
)

// SlotSymbol is one reel face and its relative draw weight
type SlotSymbol struct {
	Face   string
	Weight int
}

// Paytable describes the reel symbols and the multipliers paid on matches
type Paytable struct {
	Symbols          []SlotSymbol
	TripleMultiplier int64
	PairMultiplier   int64
}

// DefaultPaytable returns the standard five symbol reel
func DefaultPaytable() Paytable {
	return Paytable{
		Symbols: []SlotSymbol{
			{Face: "🍒", Weight: 30},
			{Face: "🍋", Weight: 25},
			{Face: "🍊", Weight: 20},
			{Face: "⭐", Weight: 15},
			{Face: "7️⃣", Weight: 10},
		},
		TripleMultiplier: 10,
		PairMultiplier:   2,
	}
}

// Validate checks that the paytable can be drawn from
func (p Paytable) Validate() error {
	if len(p.Symbols) == 0 {
		return fmt.Errorf("paytable has no symbols")
	}
	for _, symbol := range p.Symbols {
		if symbol.Weight <= 0 {
			return fmt.Errorf("symbol %s has non-positive weight %d", symbol.Face, symbol.Weight)
		}
	}
	if p.TripleMultiplier < 0 || p.PairMultiplier < 0 {
		return fmt.Errorf("paytable multipliers cannot be negative")
	}
	return nil
}

func (p Paytable) totalWeight() int {
	total := 0
	for _, symbol := range p.Symbols {
		total += symbol.Weight
	}
	return total
}

// Draw picks one symbol with probability proportional to its weight
func (p Paytable) Draw(rng RandomSource) string {
	roll := rng.Intn(p.totalWeight())
	for _, symbol := range p.Symbols {
		if roll < symbol.Weight {
			return symbol.Face
		}
		roll -= symbol.Weight
	}
	// unreachable for a validated paytable
	return p.Symbols[len(p.Symbols)-1].Face
}

// Spin draws three independent reels
func (p Paytable) Spin(rng RandomSource) [3]string {
	return [3]string{p.Draw(rng), p.Draw(rng), p.Draw(rng)}
}

// Multiplier returns the payout multiplier for a set of reels
func (p Paytable) Multiplier(reels [3]string) int64 {
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		return p.TripleMultiplier
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		return p.PairMultiplier
	default:
		return 0
	}
}
