package resilience

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/kbukum/engineconnector/errors"
)

// DefaultWindow is the trailing window a per-minute budget is measured over.
const DefaultWindow = time.Minute

// LimiterOption configures a SlidingWindowLimiter.
type LimiterOption func(*SlidingWindowLimiter)

// WithWindow overrides the trailing window length.
func WithWindow(d time.Duration) LimiterOption {
	return func(l *SlidingWindowLimiter) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *SlidingWindowLimiter) { l.now = now }
}

// WithSleeper overrides how the limiter pauses.
func WithSleeper(sleep SleepFunc) LimiterOption {
	return func(l *SlidingWindowLimiter) { l.sleep = sleep }
}

// WithWaitHook registers a callback invoked before the limiter pauses.
func WithWaitHook(fn func(wait time.Duration, inWindow int)) LimiterOption {
	return func(l *SlidingWindowLimiter) { l.onWait = fn }
}

// SlidingWindowLimiter admits at most budget calls in any trailing window.
// It keeps the admission timestamps of the current window; the whole
// prune, wait and record sequence runs under one lock so admissions are
// linearizable. A single limiter is shared by every caller that should
// count against the same budget.
type SlidingWindowLimiter struct {
	window time.Duration
	now    func() time.Time
	sleep  SleepFunc
	onWait func(wait time.Duration, inWindow int)

	mu     sync.Mutex
	stamps []time.Time
}

// NewSlidingWindowLimiter creates a limiter with a one-minute window.
func NewSlidingWindowLimiter(opts ...LimiterOption) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		window: DefaultWindow,
		now:    time.Now,
		sleep:  SleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until a call fits within budget calls per window, then records
// it. A budget of zero or less disables limiting and never blocks. If ctx is
// done while waiting, a RATE_LIMITED error is returned and nothing is recorded.
func (l *SlidingWindowLimiter) Wait(ctx context.Context, budget int) error {
	if budget <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.stamps) >= budget {
		wait := l.window - now.Sub(l.stamps[0])
		if wait > 0 {
			if l.onWait != nil {
				l.onWait(wait, len(l.stamps))
			}
			if err := l.sleep(ctx, wait); err != nil {
				return apperrors.RateLimited(err)
			}
		}
		now = l.now()
		l.prune(now)
	}

	l.stamps = append(l.stamps, now)
	return nil
}

// Len returns the number of admissions still inside the window.
func (l *SlidingWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.stamps)
}

// Window returns the trailing window length.
func (l *SlidingWindowLimiter) Window() time.Duration {
	return l.window
}

// prune drops timestamps at least one window old. Stamps are appended in
// order, so the expired ones form a prefix.
func (l *SlidingWindowLimiter) prune(now time.Time) {
	cut := 0
	for cut < len(l.stamps) && now.Sub(l.stamps[cut]) >= l.window {
		cut++
	}
	if cut > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[cut:]...)
	}
}
