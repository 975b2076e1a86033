package resilience

import (
	"context"
	"time"

	apperrors "github.com/kbukum/engineconnector/errors"
)

// BulkheadConfig sizes a bulkhead. MaxConcurrent <= 0 disables it and a
// zero MaxWait rejects as soon as every slot is taken. OnReject, when set,
// sees every rejection.
type BulkheadConfig struct {
	Name          string
	MaxConcurrent int
	MaxWait       time.Duration
	OnReject      func(name string)
}

// Bulkhead caps concurrent calls with a buffered-channel semaphore.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a new bulkhead. It returns nil when MaxConcurrent is
// not positive; a nil Bulkhead admits everything.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		return nil
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Do runs fn within the bulkhead. A full bulkhead yields a CONNECTOR_BUSY error.
func Do[T any](ctx context.Context, b *Bulkhead, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	release, err := b.Acquire(ctx)
	if err != nil {
		return zero, err
	}
	defer release()
	return fn(ctx)
}

// Acquire takes a slot, returning the function that gives it back.
func (b *Bulkhead) Acquire(ctx context.Context) (func(), error) {
	if b == nil {
		return func() {}, nil
	}
	if err := b.acquire(ctx); err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name)
		}
		return nil, err
	}
	return func() { <-b.sem }, nil
}

// acquire tries for a free slot, then waits up to MaxWait. Without MaxWait
// a full bulkhead is rejected at once.
func (b *Bulkhead) acquire(ctx context.Context) error {
	busy := apperrors.Busy(b.config.Name, b.config.MaxConcurrent)
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
		if b.config.MaxWait <= 0 {
			return busy
		}
	}

	wait, cancel := context.WithTimeout(ctx, b.config.MaxWait)
	defer cancel()
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-wait.Done():
		if ctx.Err() != nil {
			return busy.WithCause(ctx.Err())
		}
		return busy
	}
}

// InUse returns the number of slots currently in use.
func (b *Bulkhead) InUse() int {
	if b == nil {
		return 0
	}
	return len(b.sem)
}

// MaxConcurrent returns the maximum concurrent calls allowed, or 0 when disabled.
func (b *Bulkhead) MaxConcurrent() int {
	if b == nil {
		return 0
	}
	return b.config.MaxConcurrent
}
