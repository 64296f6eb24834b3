package service

import (
	"math"
)

// PaytableOdds is the exact outcome distribution of a paytable
type PaytableOdds struct {
	TripleChance   float64
	PairChance     float64
	MissChance     float64
	ExpectedReturn float64 // payout per unit staked
}

// Odds computes the exact outcome distribution of three independent reels
func (p Paytable) Odds() PaytableOdds {
	total := float64(p.totalWeight())

	var triple, pair float64
	for _, symbol := range p.Symbols {
		q := float64(symbol.Weight) / total
		triple += q * q * q
		pair += 3 * q * q * (1 - q)
	}

	return PaytableOdds{
		TripleChance:   triple,
		PairChance:     pair,
		MissChance:     1 - triple - pair,
		ExpectedReturn: triple*float64(p.TripleMultiplier) + pair*float64(p.PairMultiplier),
	}
}

// SimulationReport summarizes simulated spins against the exact odds
type SimulationReport struct {
	Spins          int
	Triples        int
	Pairs          int
	Misses         int
	SymbolCounts   map[string]int
	ReturnToPlayer float64
	// ChiSquared measures symbol frequency against the weights.
	// With k symbols it follows a chi-squared law with k-1 degrees of freedom.
	ChiSquared float64
}

// Simulate spins the reels n times with rng
func (p Paytable) Simulate(rng RandomSource, n int) SimulationReport {
	report := SimulationReport{
		Spins:        n,
		SymbolCounts: make(map[string]int, len(p.Symbols)),
	}

	var paid int64
	for i := 0; i < n; i++ {
		reels := p.Spin(rng)
		for _, face := range reels {
			report.SymbolCounts[face]++
		}

		paid += p.Multiplier(reels)
		switch {
		case reels[0] == reels[1] && reels[1] == reels[2]:
			report.Triples++
		case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
			report.Pairs++
		default:
			report.Misses++
		}
	}

	if n == 0 {
		return report
	}

	report.ReturnToPlayer = float64(paid) / float64(n)

	draws := float64(3 * n)
	total := float64(p.totalWeight())
	for _, symbol := range p.Symbols {
		expected := draws * float64(symbol.Weight) / total
		observed := float64(report.SymbolCounts[symbol.Face])
		report.ChiSquared += math.Pow(observed-expected, 2) / expected
	}

	return report
}

// CoinflipReturn is the payout per unit staked on a fair coin
func CoinflipReturn(multiplier int64) float64 {
	return 0.5 * float64(multiplier)
}
