package crawl

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/fwojciec/searchcrawl"
)

// Compile-time interface verification.
var _ searchcrawl.ChangeDetector = (*ChangeDetector)(nil)

// ChangeDetector implements searchcrawl.ChangeDetector on top of the
// document store. Content identity is byte-for-byte hash equality, nothing
// semantic.
type ChangeDetector struct {
	documents       searchcrawl.DocumentService
	recheckInterval time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewChangeDetector creates a ChangeDetector. A document older than
// recheckInterval is due for re-fetching even without a sitemap lastmod hint.
func NewChangeDetector(documents searchcrawl.DocumentService, recheckInterval time.Duration) *ChangeDetector {
	return &ChangeDetector{
		documents:       documents,
		recheckInterval: recheckInterval,
		now:             time.Now,
	}
}

// SetNow overrides the clock. For tests.
func (d *ChangeDetector) SetNow(now func() time.Time) {
	d.now = now
}

// ShouldRecrawl reports whether the URL is due for a fetch.
func (d *ChangeDetector) ShouldRecrawl(ctx context.Context, url string, lastmod *time.Time) (bool, error) {
	doc, err := d.documents.FindDocumentByURL(ctx, url)
	if err != nil {
		if searchcrawl.ErrorCode(err) == searchcrawl.ENOTFOUND {
			return true, nil
		}
		return false, err
	}

	if lastmod != nil && lastmod.After(doc.CrawlDate) {
		return true, nil
	}

	return d.now().Sub(doc.CrawlDate) > d.recheckInterval, nil
}

// Record stores the fetched body and reports whether the content changed.
// Unchanged content (equal hashes) only advances last_check_date; the stored
// body and crawl date are left untouched.
func (d *ChangeDetector) Record(ctx context.Context, url, html, sourceName string) (bool, error) {
	hash := HashContent(html)
	now := d.now().UTC()

	doc, err := d.documents.FindDocumentByURL(ctx, url)
	if err != nil && searchcrawl.ErrorCode(err) != searchcrawl.ENOTFOUND {
		return false, err
	}

	if err == nil && doc.ContentHash == hash {
		if err := d.documents.TouchDocument(ctx, url, now); err != nil {
			return false, err
		}
		return false, nil
	}

	upsert := &searchcrawl.Document{
		URL:           url,
		HTMLContent:   html,
		SourceName:    sourceName,
		ContentHash:   hash,
		CrawlDate:     now,
		LastCheckDate: now,
	}
	if err := d.documents.UpsertDocument(ctx, upsert); err != nil {
		return false, err
	}
	return true, nil
}

// HashContent computes the content hash used for change detection: the
// xxHash64 digest of the body, hex-encoded.
func HashContent(content string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(content))
	return hex.EncodeToString(b[:])
}
