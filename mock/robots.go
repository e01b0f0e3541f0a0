package mock

import (
	"context"
	"time"

	"github.com/fwojciec/searchcrawl"
)

var _ searchcrawl.RobotsService = (*RobotsService)(nil)

// RobotsService is a mock implementation of searchcrawl.RobotsService.
type RobotsService struct {
	CanFetchFn func(ctx context.Context, rawURL string) bool
	SitemapsFn func(ctx context.Context, baseURL string) []string
}

func (s *RobotsService) CanFetch(ctx context.Context, rawURL string) bool {
	if s.CanFetchFn == nil {
		return true
	}
	return s.CanFetchFn(ctx, rawURL)
}

func (s *RobotsService) Sitemaps(ctx context.Context, baseURL string) []string {
	if s.SitemapsFn == nil {
		return nil
	}
	return s.SitemapsFn(ctx, baseURL)
}

var _ searchcrawl.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of searchcrawl.Pacer.
type Pacer struct {
	WaitFn  func(ctx context.Context) error
	RaiseFn func(d time.Duration)
	DelayFn func() time.Duration
}

func (p *Pacer) Wait(ctx context.Context) error {
	if p.WaitFn == nil {
		return nil
	}
	return p.WaitFn(ctx)
}

func (p *Pacer) Raise(d time.Duration) {
	if p.RaiseFn != nil {
		p.RaiseFn(d)
	}
}

func (p *Pacer) Delay() time.Duration {
	if p.DelayFn == nil {
		return 0
	}
	return p.DelayFn()
}
