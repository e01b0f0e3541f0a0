package mock

import (
	"context"

	"github.com/fwojciec/searchcrawl"
)

var _ searchcrawl.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver is a mock implementation of searchcrawl.SitemapResolver.
type SitemapResolver struct {
	DiscoverFn func(ctx context.Context, source searchcrawl.Source) (int, error)
}

func (r *SitemapResolver) Discover(ctx context.Context, source searchcrawl.Source) (int, error) {
	return r.DiscoverFn(ctx, source)
}
