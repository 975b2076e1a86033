// Package resilience provides the admission and retry primitives used by the
// engine client.
//
// This package includes:
//   - SlidingWindowLimiter: admits at most N calls in any trailing window
//   - Retry: a fixed-delay attempt loop driven by explicit per-attempt verdicts
//   - Bulkhead: caps the number of in-flight invocations
//
// The limiter is an explicit value shared by reference between the callers it
// should throttle together:
//
//	limiter := resilience.NewSlidingWindowLimiter()
//	if err := limiter.Wait(ctx, cfg.RequestsPerMinute()); err != nil {
//	    return err
//	}
//	resp, err := resilience.Retry(ctx, resilience.RetryConfig{MaxAttempts: 3, Delay: time.Second},
//	    func(ctx context.Context, attempt int) resilience.Attempt[*http.Response] {
//	        ...
//	    })
package resilience
