package searchcrawl

import (
	"context"
	"time"
)

// RobotsService is a per-domain robots.txt authority. Policies are fetched
// lazily on first reference to a domain and cached for the process lifetime.
// A robots fetch or parse failure must never halt crawling: failed domains
// get an always-allow policy (fail-open).
type RobotsService interface {
	// CanFetch reports whether the crawler is permitted to fetch rawURL.
	// Always true when robots enforcement is disabled by configuration.
	CanFetch(ctx context.Context, rawURL string) bool

	// Sitemaps returns sitemap URLs declared in the domain's robots.txt.
	Sitemaps(ctx context.Context, baseURL string) []string
}

// Pacer enforces the politeness delay between outbound fetches. The delay is
// process-wide: a single sequential worker fetches one URL at a time, so a
// global pace is exactly the per-site pace. A declared robots crawl-delay can
// only raise it, never lower it.
type Pacer interface {
	// Wait blocks until the next fetch is allowed, or until ctx is done.
	Wait(ctx context.Context) error

	// Raise increases the delay to d if d exceeds the current delay.
	Raise(d time.Duration)

	// Delay returns the current delay between fetches.
	Delay() time.Duration
}
