package rate_limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limiter guards requests to the remote source with a token bucket and/or a cap on in-flight requests.
// Either part is disabled when its definition value is zero.
type Limiter struct {
	tokens *rate.Limiter
	slots  *semaphore.Weighted
}

func NewLimiter(d *Definition) *Limiter {
	l := &Limiter{}
	if d.FillRate > 0 {
		l.tokens = rate.NewLimiter(rate.Limit(d.FillRate), d.BucketSize)
	}
	if d.MaxConcurrency > 0 {
		l.slots = semaphore.NewWeighted(d.MaxConcurrency)
	}
	return l
}

// Acquire blocks until a request may be made, or ctx is done.
// The returned release func must be called once the request has completed.
func (l *Limiter) Acquire(ctx context.Context) (release func(), err error) {
	release = func() {}
	if l.slots != nil {
		if err := l.slots.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		release = func() { l.slots.Release(1) }
	}
	if l.tokens != nil {
		if err := l.tokens.Wait(ctx); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}
