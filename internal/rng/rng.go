// Package rng provides the random-source abstraction used by the price
// synthesis code. All stochastic draws go through a Source so tests can
// supply deterministic sequences.
package rng

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source produces the deviates the synthesis model needs.
type Source interface {
	// Uniform returns a deviate in [0, 1).
	Uniform() float64
	// Normal returns a standard-normal deviate.
	Normal() float64
}

// mathSource wraps math/rand. Normal is derived from Uniform via
// Box-Muller rather than rand.NormFloat64 so that a scripted uniform
// stream fully determines the normal stream too. The mutex makes the
// source safe for concurrent draws, which the poller relies on.
type mathSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Source seeded with the given value.
func New(seed int64) Source {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

// NewTime returns a Source seeded from the current time.
func NewTime() Source {
	return New(time.Now().UnixNano())
}

func (s *mathSource) Uniform() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *mathSource) Normal() float64 {
	return BoxMuller(s)
}

// BoxMuller draws two uniforms from src and transforms them into one
// standard-normal deviate. Zero uniforms are redrawn since log(0) is
// undefined.
func BoxMuller(src interface{ Uniform() float64 }) float64 {
	var u, v float64
	for u == 0 {
		u = src.Uniform()
	}
	for v == 0 {
		v = src.Uniform()
	}
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
}
