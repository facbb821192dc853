// Package circuitbreaker stops a client from hammering an assistant backend
// that keeps failing.
//
// A circuit breaker has three states:
//
//   - CLOSED: Normal operation, requests pass through
//   - OPEN: Backend failing, requests blocked
//   - HALF-OPEN: One trial request decides whether to close again
//
// Usage:
//
//	cb := circuitbreaker.New(5, 30*time.Second)
//	err := cb.Do(func() error {
//	    return callBackend()
//	})
//	if errors.Is(err, circuitbreaker.ErrOpen) {
//	    // backend skipped
//	}
package circuitbreaker
