package ratelimit

import (
	"net/http"
	"sync"
	"time"

	xhttp "CryptoCast/pkg/http"

	"github.com/labstack/echo/v4"
)

const (
	defaultIdleTTL    = 10 * time.Minute
	defaultSweepEvery = time.Minute
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. Every key starts full at capacity and
// refills at refillPerSec tokens per second. Buckets that are full again or
// idle longer than the idle TTL are dropped, so the key set stays bounded by
// recent traffic.
type Limiter struct {
	mu           sync.Mutex
	m            map[string]*bucket
	capacity     float64
	refillPerSec float64
	idleTTL      time.Duration
	sweepEvery   time.Duration
	lastSweep    time.Time
	now          func() time.Time
}

// Option configures Limiter.
type Option func(*Limiter)

// WithIdleTTL sets how long an untouched bucket is kept.
func WithIdleTTL(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.idleTTL = d
		}
	}
}

func New(capacity, refillPerSec float64, opts ...Option) *Limiter {
	l := &Limiter{
		m:            make(map[string]*bucket),
		capacity:     capacity,
		refillPerSec: refillPerSec,
		idleTTL:      defaultIdleTTL,
		sweepEvery:   defaultSweepEvery,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.sweepEvery = min(l.sweepEvery, l.idleTTL)
	return l
}

// Allow reports whether one token could be consumed for key.
// A non-positive capacity disables limiting.
func (l *Limiter) Allow(key string) bool {
	if l.capacity <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lastSweep.IsZero() {
		l.lastSweep = now
	} else if now.Sub(l.lastSweep) >= l.sweepEvery {
		l.sweep(now)
		l.lastSweep = now
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(l.capacity, b.tokens+elapsed*l.refillPerSec)
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets indistinguishable from a fresh one or idle past the TTL.
// Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	for key, b := range l.m {
		idle := now.Sub(b.last)
		refilled := l.refillPerSec > 0 && b.tokens+idle.Seconds()*l.refillPerSec >= l.capacity
		if refilled || idle >= l.idleTTL {
			delete(l.m, key)
		}
	}
}

// Size returns the number of tracked keys.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// Middleware rejects requests with 429 once the caller's bucket is empty.
// Callers are keyed by client IP.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return xhttp.TooManyRequestsResponse(c, []*xhttp.AppError{
					xhttp.NewAppError("ERR_RATE_LIMITED", "", "Too many prediction requests, try again shortly", http.StatusTooManyRequests),
				})
			}
			return next(c)
		}
	}
}
