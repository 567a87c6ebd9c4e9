// Package ratelimit provides the relay's token-bucket rate limiting.
//
// Buckets refill continuously from wall-clock deltas:
//
//	tokens = min(capacity, tokens + elapsed_seconds × refillPerSecond)
//
// golang.org/x/time/rate implements exactly this, so a Limit pairs a
// refill rate with a burst capacity and the registry hands out one
// limiter per key. Denial is immediate and final for that attempt; the
// caller may retry later at its own discretion.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limit describes one bucket shape: capacity tokens, refilled at
// RefillPerSec tokens per second.
type Limit struct {
	Capacity  int
	RefillPer float64 // tokens per second
}

// NewLimiter creates a standalone limiter with the given shape, starting
// full. Device sockets own one of these per connection.
func NewLimiter(l Limit) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(l.RefillPer), l.Capacity)
}

// Registry manages one limiter per string key, e.g. "route|clientIP".
// Keys with different limit shapes coexist; the shape is fixed at first
// use of a key.
type Registry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewRegistry creates an empty limiter registry.
func NewRegistry() *Registry {
	return &Registry{limiters: make(map[string]*rate.Limiter)}
}

// Allow reports whether one token is available for key, consuming it if
// so. The limiter for an unseen key is created full with the given
// shape.
func (r *Registry) Allow(key string, limit Limit) bool {
	return r.getOrCreate(key, limit).Allow()
}

func (r *Registry) getOrCreate(key string, limit Limit) *rate.Limiter {
	r.mu.RLock()
	limiter, ok := r.limiters[key]
	r.mu.RUnlock()
	if ok {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if limiter, ok := r.limiters[key]; ok {
		return limiter
	}
	limiter = NewLimiter(limit)
	r.limiters[key] = limiter
	return limiter
}

// Delete removes the limiter for a key.
func (r *Registry) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.limiters, key)
}

// Size returns the number of tracked keys.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}
