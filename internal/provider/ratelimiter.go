package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by all requests a provider sends
// upstream. Tokens refill one per interval up to the burst size.
type RateLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRateLimiter allows burst requests at once and one more per interval.
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), burst),
		now:     time.Now,
	}
}

// Wait blocks until a token is available or ctx is done. It fails fast when
// ctx's deadline is too close for the next token.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Available reports the whole tokens left.
func (r *RateLimiter) Available() int {
	return int(r.limiter.TokensAt(r.now()))
}
