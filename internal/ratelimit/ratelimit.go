// Package ratelimit spaces out calls to the Telegram Bot API.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer lets one call through per interval. The first call never waits.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a Pacer with the given minimum spacing between calls.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// Interval reports the configured spacing; zero means unlimited.
func (p *Pacer) Interval() time.Duration {
	if p == nil || p.limiter.Limit() == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(p.limiter.Limit()))
}
