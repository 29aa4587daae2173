// Package rng provides the randomness source used by the heuristic generators
// and the mock draw provider. Production code uses a seeded math/rand stream;
// tests substitute a fixed Sequence so generated numbers are structurally
// checkable.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) int
}

// lockedSource makes a *rand.Rand safe for the HTTP server's concurrent handlers.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a goroutine-safe source seeded with seed.
func New(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded returns a goroutine-safe source seeded from the wall clock.
func NewTimeSeeded() Source {
	return New(time.Now().UnixNano())
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Sequence replays a fixed list of values, wrapping around at the end.
// Each value is reduced modulo n, so any list is valid for any caller.
type Sequence struct {
	values []int
	next   int
}

// NewSequence creates a sequence source. An empty list always yields 0.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Intn returns the next value modulo n.
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}
