package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/searchcrawl"
)

// Ensure LoggingResolver implements searchcrawl.SitemapResolver.
var _ searchcrawl.SitemapResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a SitemapResolver with per-source logging.
type LoggingResolver struct {
	next   searchcrawl.SitemapResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next searchcrawl.SitemapResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Discover delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) Discover(ctx context.Context, source searchcrawl.Source) (added int, err error) {
	defer func(begin time.Time) {
		r.logger.Info("sitemap discovery",
			"source", source.Name,
			"url", source.URL,
			"added", added,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Discover(ctx, source)
}
