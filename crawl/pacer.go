package crawl

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fwojciec/searchcrawl"
)

// Compile-time interface verification.
var _ searchcrawl.Pacer = (*Pacer)(nil)

// Pacer enforces the process-wide politeness delay using a token bucket with
// a burst of 1. The delay starts at the configured value and can only be
// raised, typically by a robots.txt crawl-delay declaration.
type Pacer struct {
	mu      sync.Mutex
	delay   time.Duration
	limiter *rate.Limiter
}

// NewPacer creates a Pacer with the given initial delay between fetches.
// A non-positive delay means no pacing until Raise is called.
func NewPacer(delay time.Duration) *Pacer {
	p := &Pacer{
		delay:   delay,
		limiter: rate.NewLimiter(limitFor(delay), 1),
	}
	// Drain the initial burst token so the very first Wait already enforces
	// the delay. Wait runs after each fetch, and the pause between the first
	// and second fetch counts too.
	p.limiter.Allow()
	return p
}

func limitFor(delay time.Duration) rate.Limit {
	if delay <= 0 {
		return rate.Inf
	}
	return rate.Every(delay)
}

// Wait blocks until the next fetch is allowed.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Raise increases the delay to d if d exceeds the current delay.
func (p *Pacer) Raise(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if d <= p.delay {
		return
	}
	p.delay = d
	p.limiter.SetLimit(limitFor(d))
}

// Delay returns the current delay between fetches.
func (p *Pacer) Delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.delay
}
