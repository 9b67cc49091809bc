package pairing

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand yields a uniform draw in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// lockedRand makes a *rand.Rand safe to share between goroutines.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewSeededRand returns a goroutine-safe source with a fixed seed, so a
// sequence of selections can be replayed.
func NewSeededRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func newTimeSeededRand() Rand {
	return NewSeededRand(uint64(time.Now().UnixNano()))
}
