// Package ratelimit keeps one token bucket per key. The HTTP API keys it by
// client IP; the ingester keys it by upstream host.
package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"fontpair/pkg/utils"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Keyed struct {
	mu      sync.Mutex
	buckets map[string]*entry
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

// New creates a limiter allowing rps per key with the given burst. rps <= 0
// means unlimited. Buckets unused for idle are dropped by Sweep.
func New(rps float64, burst int) *Keyed {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Keyed{
		buckets: make(map[string]*entry),
		limit:   limit,
		burst:   max(burst, 1),
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed now.
func (k *Keyed) Allow(key string) bool {
	return k.get(key).Allow()
}

// Wait blocks until key has a token or ctx ends.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.get(key).Wait(ctx)
}

func (k *Keyed) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = e
	}
	e.lastSeen = k.now()
	return e.limiter
}

// Sweep drops idle buckets and returns how many were removed.
func (k *Keyed) Sweep() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := k.now().Add(-k.idle)
	n := 0
	for key, e := range k.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(k.buckets, key)
			n++
		}
	}
	return n
}

func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (k *Keyed) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			k.Sweep()
		}
	}
}

// Middleware rejects requests over the per-IP budget with 429.
func Middleware(k *Keyed) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !k.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			utils.AbortError(c, http.StatusTooManyRequests, utils.CodeRateLimited, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
