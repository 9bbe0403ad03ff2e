package ratelimit

import (
    "sync"
    "time"
)

// Buckets idle longer than this are dropped during pruning.
const staleAfter = 10 * time.Minute

const pruneThreshold = 10000

type bucket struct {
    tokens     float64
    capacity   float64
    refillRate float64 // tokens per second
    last       time.Time
}

// Limiter is a token bucket limiter keyed by caller. Keys are typically
// client IP plus endpoint, so the map is pruned once it grows large.
type Limiter struct {
    mu sync.Mutex
    m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
    now := time.Now()
    l.mu.Lock()
    b, ok := l.m[key]
    if !ok {
        if len(l.m) >= pruneThreshold {
            l.pruneLocked(now)
        }
        b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
        l.m[key] = b
    }
    // refill
    elapsed := now.Sub(b.last).Seconds()
    if elapsed > 0 {
        b.tokens += elapsed * b.refillRate
        if b.tokens > b.capacity { b.tokens = b.capacity }
        b.last = now
    }
    if b.tokens >= 1 {
        b.tokens -= 1
        l.mu.Unlock()
        return true
    }
    l.mu.Unlock()
    return false
}

func (l *Limiter) pruneLocked(now time.Time) {
    for k, b := range l.m {
        if now.Sub(b.last) > staleAfter {
            delete(l.m, k)
        }
    }
}
