package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/fwojciec/searchcrawl"
)

// DefaultRobotsTimeout bounds the robots.txt fetch. Robots failures are
// never fatal, so the timeout is short.
const DefaultRobotsTimeout = 5 * time.Second

// Ensure RobotsAuthority implements searchcrawl.RobotsService.
var _ searchcrawl.RobotsService = (*RobotsAuthority)(nil)

// RobotsAuthority caches one robots.txt policy per domain for the process
// lifetime (no TTL: a crawl run is short compared to robots churn). Fetch or
// parse failures fail open: the domain gets an always-allow policy and a
// warning is logged.
//
// The cache and the shared pacer are only ever touched by the single crawl
// worker, so no lock discipline is needed here. A parallel crawler would
// need per-domain locking and a per-domain delay instead.
type RobotsAuthority struct {
	client    *http.Client
	userAgent string
	respect   bool
	pacer     searchcrawl.Pacer
	logger    *slog.Logger

	cache map[string]*robotsPolicy
}

// robotsPolicy is the cached per-domain state. A nil ruleset means allow-all.
type robotsPolicy struct {
	ruleset  *robotstxt.RobotsData
	sitemaps []string
}

// RobotsOption configures a RobotsAuthority.
type RobotsOption func(*RobotsAuthority)

// WithRobotsClient sets a custom HTTP client.
func WithRobotsClient(c *http.Client) RobotsOption {
	return func(a *RobotsAuthority) {
		a.client = c
	}
}

// WithRobotsLogger sets the logger for robots warnings.
func WithRobotsLogger(logger *slog.Logger) RobotsOption {
	return func(a *RobotsAuthority) {
		a.logger = logger
	}
}

// WithPacer attaches the politeness pacer. When a robots response declares a
// crawl-delay for the configured user agent, the authority raises the pacer's
// global delay to match.
func WithPacer(p searchcrawl.Pacer) RobotsOption {
	return func(a *RobotsAuthority) {
		a.pacer = p
	}
}

// NewRobotsAuthority creates a RobotsAuthority. When respect is false,
// CanFetch always allows without consulting any policy; policies are still
// fetched for sitemap discovery hints.
func NewRobotsAuthority(userAgent string, respect bool, opts ...RobotsOption) *RobotsAuthority {
	a := &RobotsAuthority{
		userAgent: userAgent,
		respect:   respect,
		cache:     make(map[string]*robotsPolicy),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = &http.Client{Timeout: DefaultRobotsTimeout}
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// CanFetch reports whether the crawler is permitted to fetch rawURL.
func (a *RobotsAuthority) CanFetch(ctx context.Context, rawURL string) bool {
	if !a.respect {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	policy := a.policyFor(ctx, u)
	if policy.ruleset == nil {
		return true
	}

	group := policy.ruleset.FindGroup(a.userAgent)
	if group == nil {
		group = policy.ruleset.FindGroup("*")
		if group == nil {
			return true
		}
	}
	return group.Test(u.RequestURI())
}

// Sitemaps returns sitemap URLs declared in the domain's robots.txt.
func (a *RobotsAuthority) Sitemaps(ctx context.Context, baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return a.policyFor(ctx, u).sitemaps
}

// policyFor returns the cached policy for the URL's domain, fetching
// robots.txt on first reference.
func (a *RobotsAuthority) policyFor(ctx context.Context, u *url.URL) *robotsPolicy {
	domain := strings.ToLower(u.Scheme + "://" + u.Host)
	if policy, ok := a.cache[domain]; ok {
		return policy
	}

	policy := a.fetchPolicy(ctx, domain)
	a.cache[domain] = policy
	return policy
}

// fetchPolicy downloads and parses robots.txt for a domain. Every failure
// path degrades to allow-all: robots trouble must never halt crawling.
func (a *RobotsAuthority) fetchPolicy(ctx context.Context, domain string) *robotsPolicy {
	robotsURL := domain + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		a.logger.Warn("robots request failed, allowing all", "domain", domain, "err", err)
		return &robotsPolicy{}
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("robots fetch failed, allowing all", "domain", domain, "err", err)
		return &robotsPolicy{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("robots not available, allowing all", "domain", domain, "status", resp.StatusCode)
		return &robotsPolicy{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Warn("robots read failed, allowing all", "domain", domain, "err", err)
		return &robotsPolicy{}
	}

	ruleset, err := robotstxt.FromBytes(body)
	if err != nil {
		a.logger.Warn("robots parse failed, allowing all", "domain", domain, "err", err)
		return &robotsPolicy{}
	}

	a.logger.Info("robots.txt loaded", "domain", domain, "sitemaps", len(ruleset.Sitemaps))

	// A declared crawl-delay raises the process-wide delay. This is a known
	// imprecision: one slow domain paces every domain. A per-domain pacer is
	// the fix if the crawler is ever parallelized.
	if a.pacer != nil {
		if group := ruleset.FindGroup(a.userAgent); group != nil && group.CrawlDelay > 0 {
			a.logger.Info("robots crawl-delay declared",
				"domain", domain, "delay", group.CrawlDelay)
			a.pacer.Raise(group.CrawlDelay)
		}
	}

	return &robotsPolicy{
		ruleset:  ruleset,
		sitemaps: ruleset.Sitemaps,
	}
}
