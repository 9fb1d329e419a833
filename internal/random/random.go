// Package random provides the injectable random source shared by response
// generators and asset relocation.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is a goroutine-safe wrapper around a seeded PCG generator.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a source seeded with seed. A zero seed draws one from the clock.
func New(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a value in [0.0, 1.0).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// IntN returns a value in [0, n).
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}
