package action

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the source of uniform choices. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(n)
}

// NewRand returns a goroutine-safe PCG source with a fixed seed.
func NewRand(seed uint64) Rand {
	return &lockedRand{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededRand seeds from the wall clock.
func NewTimeSeededRand() Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}
