package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy is the budget for one action: Burst attempts, refilled at Every.
type Policy struct {
	Every time.Duration
	Burst int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller and action.
type RateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*entry
	policies map[string]Policy
	fallback Policy
	now      func() time.Time
}

func NewRateLimiter(fallback Policy) *RateLimiter {
	return &RateLimiter{
		entries:  make(map[string]*entry),
		policies: make(map[string]Policy),
		fallback: fallback,
		now:      time.Now,
	}
}

// PerMinute spreads n attempts evenly over a minute with a burst of n.
func PerMinute(n int) Policy {
	if n <= 0 {
		n = 1
	}
	return Policy{Every: time.Minute / time.Duration(n), Burst: n}
}

func (rl *RateLimiter) SetPolicy(action string, p Policy) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.policies[action] = p
}

// Allow consumes a token for key and action. When none is available it
// returns how long the caller should wait.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	now := rl.now()
	e := rl.entry(key, action, now)

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, rl.policy(action).Every
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) entry(key, action string, now time.Time) *entry {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	id := key + ":" + action
	e, ok := rl.entries[id]
	if !ok {
		p := rl.policyLocked(action)
		e = &entry{limiter: rate.NewLimiter(rate.Every(p.Every), p.Burst)}
		rl.entries[id] = e
	}
	e.lastSeen = now
	return e
}

func (rl *RateLimiter) policy(action string) Policy {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.policyLocked(action)
}

func (rl *RateLimiter) policyLocked(action string) Policy {
	if p, ok := rl.policies[action]; ok {
		return p
	}
	return rl.fallback
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for id, e := range rl.entries {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(rl.entries, id)
		}
	}
}

func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup(2 * interval)
			}
		}
	}()
}
