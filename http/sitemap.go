package http

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/fwojciec/searchcrawl"
)

// DefaultProbeTimeout bounds the HEAD probes for conventional sitemap paths.
const DefaultProbeTimeout = 5 * time.Second

// conventionalSitemapPaths are probed when robots.txt declares no sitemaps,
// and in addition to any it does declare.
var conventionalSitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap.xml.gz",
	"/sitemap/sitemap.xml",
}

// errSourceCapped unwinds sitemap recursion once a source hits its
// discovery cap. Remaining entries and sibling sitemaps are abandoned.
var errSourceCapped = errors.New("source discovery cap reached")

// Ensure SitemapResolver implements searchcrawl.SitemapResolver.
var _ searchcrawl.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver discovers frontier entries for a source by expanding its
// sitemaps. Sitemap indexes recurse depth-first; a visited set guards
// against cyclic sitemap graphs. Discovery is bounded by a per-source cap.
type SitemapResolver struct {
	client        *http.Client
	robots        searchcrawl.RobotsService
	frontier      searchcrawl.Frontier
	userAgent     string
	sourceCap     int
	respectRobots bool
	logger        *slog.Logger
}

// SitemapOption configures a SitemapResolver.
type SitemapOption func(*SitemapResolver)

// WithSitemapClient sets a custom HTTP client.
func WithSitemapClient(c *http.Client) SitemapOption {
	return func(r *SitemapResolver) {
		r.client = c
	}
}

// WithSitemapLogger sets the logger for discovery progress and warnings.
func WithSitemapLogger(logger *slog.Logger) SitemapOption {
	return func(r *SitemapResolver) {
		r.logger = logger
	}
}

// WithSourceCap sets the per-source discovery cap.
func WithSourceCap(n int) SitemapOption {
	return func(r *SitemapResolver) {
		r.sourceCap = n
	}
}

// WithRobotsFilter enables robots permission checks at discovery time:
// disallowed URLs are not enqueued. Tied to the same configuration flag as
// fetch-time enforcement.
func WithRobotsFilter(enabled bool) SitemapOption {
	return func(r *SitemapResolver) {
		r.respectRobots = enabled
	}
}

// NewSitemapResolver creates a SitemapResolver feeding frontier, consulting
// robots for sitemap hints.
func NewSitemapResolver(robots searchcrawl.RobotsService, frontier searchcrawl.Frontier, userAgent string, opts ...SitemapOption) *SitemapResolver {
	r := &SitemapResolver{
		robots:    robots,
		frontier:  frontier,
		userAgent: userAgent,
		sourceCap: 15000,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: DefaultProbeTimeout}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Discover locates and expands the source's sitemaps, appending a
// FrontierEntry per discovered URL. When neither robots.txt nor the
// conventional paths yield a sitemap, the source's base URL is enqueued as a
// single fallback entry.
func (r *SitemapResolver) Discover(ctx context.Context, source searchcrawl.Source) (int, error) {
	base, err := url.Parse(source.URL)
	if err != nil {
		return 0, searchcrawl.Errorf(searchcrawl.EINVALID, "source %q has invalid URL %q", source.Name, source.URL)
	}
	root := base.Scheme + "://" + base.Host

	candidates := r.robots.Sitemaps(ctx, source.URL)
	for _, sm := range candidates {
		r.logger.Info("sitemap declared in robots.txt", "source", source.Name, "sitemap", sm)
	}

	for _, path := range conventionalSitemapPaths {
		candidate := root + path
		if slices.Contains(candidates, candidate) {
			continue
		}
		if r.urlExists(ctx, candidate) {
			r.logger.Info("sitemap found at conventional path", "source", source.Name, "sitemap", candidate)
			candidates = append(candidates, candidate)
		}
	}

	if len(candidates) == 0 {
		// No sitemap discoverable: enqueue the base URL itself so the source
		// still contributes one page.
		r.logger.Warn("no sitemap found, falling back to base URL", "source", source.Name, "url", source.URL)
		r.frontier.Push(searchcrawl.FrontierEntry{
			URL:        searchcrawl.NormalizeURL(source.URL),
			SourceName: source.Name,
		})
		return 1, nil
	}

	added := 0
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		err := r.walkSitemap(ctx, candidate, source.Name, seen, &added)
		if errors.Is(err, errSourceCapped) {
			r.logger.Warn("discovery cap reached, abandoning remaining sitemaps",
				"source", source.Name, "cap", r.sourceCap)
			break
		}
		if err != nil {
			r.logger.Error("sitemap failed", "source", source.Name, "sitemap", candidate, "err", err)
		}
	}

	return added, nil
}

// walkSitemap fetches and parses one sitemap document, recursing into
// sitemap indexes. Returns errSourceCapped once the per-source cap is hit.
func (r *SitemapResolver) walkSitemap(ctx context.Context, sitemapURL, sourceName string, seen map[string]bool, added *int) error {
	if seen[sitemapURL] {
		return nil
	}
	seen[sitemapURL] = true

	r.logger.Info("parsing sitemap", "sitemap", sitemapURL)

	body, err := r.fetchSitemap(ctx, sitemapURL)
	if err != nil {
		return err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty sitemap XML")
	}

	// Root element decides the shape; the namespace prefix is ignored.
	switch root.Tag {
	case "sitemapindex":
		return r.walkIndex(ctx, root, sourceName, seen, added)
	case "urlset":
		return r.parseURLSet(ctx, root, sourceName, added)
	default:
		r.logger.Warn("unknown sitemap root element, skipping", "sitemap", sitemapURL, "tag", root.Tag)
		return nil
	}
}

// walkIndex recurses into each nested sitemap of a <sitemapindex>.
// A broken nested sitemap is logged and its siblings proceed; the cap
// sentinel propagates and stops everything for the source.
func (r *SitemapResolver) walkIndex(ctx context.Context, root *etree.Element, sourceName string, seen map[string]bool, added *int) error {
	nested := root.SelectElements("sitemap")
	r.logger.Info("sitemap index found", "nested", len(nested))

	for _, sitemap := range nested {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		childURL := strings.TrimSpace(loc.Text())
		if childURL == "" {
			continue
		}

		if err := r.walkSitemap(ctx, childURL, sourceName, seen, added); err != nil {
			if errors.Is(err, errSourceCapped) {
				return err
			}
			r.logger.Error("nested sitemap failed", "sitemap", childURL, "err", err)
		}
	}

	return nil
}

// parseURLSet appends a FrontierEntry per <url> element of a <urlset>.
func (r *SitemapResolver) parseURLSet(ctx context.Context, root *etree.Element, sourceName string, added *int) error {
	urls := root.SelectElements("url")

	appended := 0
	blocked := 0
	for _, urlEl := range urls {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		rawURL := strings.TrimSpace(loc.Text())
		if rawURL == "" {
			continue
		}

		normalized := searchcrawl.NormalizeURL(rawURL)

		if r.respectRobots && !r.robots.CanFetch(ctx, normalized) {
			blocked++
			continue
		}

		if *added >= r.sourceCap {
			return errSourceCapped
		}

		var lastmod *time.Time
		if el := urlEl.SelectElement("lastmod"); el != nil {
			lastmod = parseLastmod(el.Text())
		}

		r.frontier.Push(searchcrawl.FrontierEntry{
			URL:        normalized,
			SourceName: sourceName,
			Lastmod:    lastmod,
		})
		appended++
		*added++
	}

	if appended == 0 && blocked > 0 {
		r.logger.Warn("every sitemap URL blocked by robots.txt",
			"source", sourceName, "blocked", blocked)
	}
	r.logger.Info("sitemap parsed", "urls", len(urls), "added", appended)

	return nil
}

// fetchSitemap downloads a sitemap body, transparently decompressing
// gzip-compressed sitemaps signaled by a .gz URL suffix.
func (r *SitemapResolver) fetchSitemap(ctx context.Context, sitemapURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, sitemapURL)
	}

	var reader io.Reader = resp.Body
	if strings.HasSuffix(sitemapURL, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decompressing sitemap: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return io.ReadAll(reader)
}

// urlExists checks whether a URL answers a HEAD request with 200 OK.
func (r *SitemapResolver) urlExists(ctx context.Context, targetURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// parseLastmod parses a sitemap <lastmod> value. Sitemaps carry either full
// ISO-8601 timestamps or bare dates; anything unparseable yields nil rather
// than an error.
func parseLastmod(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
