package resilience

import (
	"context"
	"time"

	apperrors "github.com/kbukum/engineconnector/errors"
)

// Outcome is the verdict of a single attempt.
type Outcome int

const (
	// Pending means the attempt produced no verdict.
	Pending Outcome = iota
	// Succeeded stops the loop and returns the attempt's value.
	Succeeded
	// RetryableFailure retries while attempts remain; the last one is returned as final.
	RetryableFailure
	// TerminalFailure stops the loop and returns the attempt's value and error.
	TerminalFailure
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case RetryableFailure:
		return "retryable"
	case TerminalFailure:
		return "terminal"
	default:
		return "pending"
	}
}

// Attempt is the result of one physical attempt. Value may be set on failures,
// e.g. the last server-error response that the caller still wants to classify.
type Attempt[T any] struct {
	Value   T
	Err     error
	Outcome Outcome
}

// Success builds a Succeeded attempt.
func Success[T any](v T) Attempt[T] {
	return Attempt[T]{Value: v, Outcome: Succeeded}
}

// Retryable builds a RetryableFailure attempt.
func Retryable[T any](v T, err error) Attempt[T] {
	return Attempt[T]{Value: v, Err: err, Outcome: RetryableFailure}
}

// Terminal builds a TerminalFailure attempt.
func Terminal[T any](v T, err error) Attempt[T] {
	return Attempt[T]{Value: v, Err: err, Outcome: TerminalFailure}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryConfig configures the attempt loop.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
	// OnRetry is called before each pause. err may be nil when the failure is a response.
	OnRetry func(attempt int, err error, delay time.Duration)
	// Sleep replaces the timer-based pause.
	Sleep SleepFunc
}

// SleepContext pauses for d, returning early with ctx.Err() when ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry runs fn up to cfg.MaxAttempts times, pausing cfg.Delay between
// attempts. Succeeded and TerminalFailure end the loop at once; the last
// RetryableFailure is returned as final. If ctx is cancelled during a pause
// the last failure is returned. A loop that ends without any verdict yields a
// NO_RESPONSE error.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context, attempt int) Attempt[T]) (T, error) {
	var zero T
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var last Attempt[T]
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		last = fn(ctx, attempt)

		switch last.Outcome {
		case Succeeded:
			return last.Value, nil
		case TerminalFailure:
			return last.Value, last.Err
		case Pending:
			continue
		}

		if attempt == cfg.MaxAttempts {
			return last.Value, last.Err
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, last.Err, cfg.Delay)
		}
		if err := sleep(ctx, cfg.Delay); err != nil {
			return last.Value, last.Err
		}
	}

	return zero, apperrors.NoResponse(cfg.MaxAttempts)
}
