package searchcrawl

import (
	"context"
	"time"
)

// Document represents a crawled page as stored for the downstream indexer.
// The normalized URL is the single natural key: two URLs that normalize
// identically always refer to the same Document.
type Document struct {
	URL           string    `json:"url"`
	HTMLContent   string    `json:"htmlContent"`
	SourceName    string    `json:"sourceName"`
	ContentHash   string    `json:"contentHash"`
	CrawlDate     time.Time `json:"crawlDate"`
	LastCheckDate time.Time `json:"lastCheckDate"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	if d.SourceName == "" {
		return Errorf(EINVALID, "document source name required")
	}
	return nil
}

// DocumentService represents a service for managing crawled documents.
type DocumentService interface {
	// FindDocumentByURL retrieves a document by its normalized URL.
	// Returns ENOTFOUND if no document exists for the URL.
	FindDocumentByURL(ctx context.Context, url string) (*Document, error)

	// UpsertDocument creates or fully replaces the document keyed by its URL.
	UpsertDocument(ctx context.Context, doc *Document) error

	// TouchDocument advances last_check_date without rewriting content.
	// Returns ENOTFOUND if no document exists for the URL.
	TouchDocument(ctx context.Context, url string, checkedAt time.Time) error
}

// ChangeDetector decides whether a document needs re-fetching and whether a
// re-fetched document actually changed.
type ChangeDetector interface {
	// ShouldRecrawl reports whether the URL is due for a fetch. A URL with no
	// stored document is always due. Otherwise a sitemap lastmod newer than
	// the stored crawl date, or an elapsed recheck interval, makes it due.
	ShouldRecrawl(ctx context.Context, url string, lastmod *time.Time) (bool, error)

	// Record stores the fetched body and reports whether the content changed.
	// Byte-identical content (equal hashes) only advances the check date.
	Record(ctx context.Context, url, html, sourceName string) (changed bool, err error)
}
