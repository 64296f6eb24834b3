package service

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource supplies the outcomes of coinflips and slot reels
type RandomSource interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
}

// LockedRand is a seedable RandomSource safe for concurrent use
type LockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedRand returns a source seeded with seed, or with the clock if seed is 0
func NewLockedRand(seed int64) *LockedRand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *LockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}
