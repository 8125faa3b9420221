package bundle

import (
	"context"
	"sync"
	"time"
)

// DefaultRateLimit is the default bundle submission ceiling per second.
const DefaultRateLimit = 2

// window is the sliding interval the submission ceiling applies to.
const window = time.Second

// Limiter enforces a per-second ceiling on bundle submissions. The window
// counter is mutex-guarded so concurrent callers sharing one SDK instance
// see a linearizable Acquire.
type Limiter struct {
	mu          sync.Mutex
	ceiling     int
	count       int
	windowStart time.Time
}

// NewLimiter creates a limiter admitting at most ceiling submissions per
// second. A ceiling below one falls back to DefaultRateLimit.
func NewLimiter(ceiling int) *Limiter {
	if ceiling < 1 {
		ceiling = DefaultRateLimit
	}
	return &Limiter{ceiling: ceiling}
}

// Acquire blocks until the caller may attribute one more submission to the
// current one-second window. The wait is bounded by the window remainder; a
// cancelled context aborts it.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if l.windowStart.IsZero() || now.Sub(l.windowStart) > window {
			l.windowStart = now
			l.count = 0
		}
		if l.count < l.ceiling {
			l.count++
			l.mu.Unlock()
			return nil
		}
		wait := window - now.Sub(l.windowStart)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// windowCount reports the submissions attributed to the current window.
func (l *Limiter) windowCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
