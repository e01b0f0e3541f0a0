package searchcrawl

import "context"

// SitemapResolver discovers crawlable URLs for a source and feeds them to
// the frontier.
type SitemapResolver interface {
	// Discover locates the source's sitemaps via robots.txt hints and
	// conventional paths, expands sitemap indexes recursively, and appends
	// a FrontierEntry per discovered URL, bounded by a per-source cap.
	// If no sitemap is discoverable the source's base URL is enqueued as a
	// single fallback entry. Returns the number of entries appended.
	Discover(ctx context.Context, source Source) (int, error)
}
