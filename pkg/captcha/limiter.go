package captcha

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles code requests per recipient.
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	interval  time.Duration
	burst     int
	lastSweep time.Time
}

// NewLimiter allows burst sends to a recipient, refilled one per interval.
func NewLimiter(interval time.Duration, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

// Reserve takes a send slot for recipient. The returned release gives the
// slot back when the code could not be delivered.
func (l *Limiter) Reserve(recipient string) (release func(), ok bool) {
	return l.reserveAt(recipient, time.Now())
}

func (l *Limiter) reserveAt(recipient string, now time.Time) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	lim, ok := l.limiters[recipient]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), l.burst)
		l.limiters[recipient] = lim
	}

	r := lim.ReserveN(now, 1)
	if !r.OK() || r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return nil, false
	}
	return func() { r.CancelAt(now) }, true
}

// sweep drops limiters that have refilled completely; they behave exactly
// like a fresh one. Runs at most once per interval. l.mu must be held.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.interval {
		return
	}
	l.lastSweep = now
	for recipient, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, recipient)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
