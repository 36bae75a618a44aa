// Package rng provides the random sources that drive copula sampling.
//
// Every source is a math/rand/v2 [rand.Source], the type gonum's
// distributions accept, so one logical stream can be shared by a copula and
// all of its internal generators. Sources returned by [New] are not safe for
// concurrent use; [Default] is.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the uniform 64-bit stream consumed by samplers.
type Source = rand.Source

// New returns a deterministic PCG source for seed.
func New(seed uint64) Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Locked serializes access to an underlying source.
type Locked struct {
	mu  sync.Mutex
	src Source
}

func NewLocked(src Source) *Locked {
	return &Locked{src: src}
}

func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint64()
}

var (
	defaultOnce sync.Once
	defaultSrc  *Locked
)

// Default returns the process-wide source used when a copula is built
// without one. It is seeded once from crypto entropy, falling back to the
// clock, and is safe for concurrent use.
func Default() Source {
	defaultOnce.Do(func() {
		defaultSrc = NewLocked(New(entropySeed()))
	})
	return defaultSrc
}

// Seed draws a fresh seed from Default, for runs configured without one.
func Seed() uint64 {
	return Default().Uint64()
}

// OrDefault returns src, or Default when src is nil.
func OrDefault(src Source) Source {
	if src == nil {
		return Default()
	}
	return src
}

func entropySeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint64(b[:])
	}
	return uint64(time.Now().UnixNano())
}

// OpenUnit draws from the open interval (0, 1).
func OpenUnit(r *rand.Rand) float64 {
	for {
		if u := r.Float64(); u > 0 {
			return u
		}
	}
}

// Exp draws a unit-rate exponential variate.
func Exp(r *rand.Rand) float64 {
	return -math.Log(OpenUnit(r))
}
