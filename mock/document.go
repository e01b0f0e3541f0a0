package mock

import (
	"context"
	"time"

	"github.com/fwojciec/searchcrawl"
)

var _ searchcrawl.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of searchcrawl.DocumentService.
type DocumentService struct {
	FindDocumentByURLFn func(ctx context.Context, url string) (*searchcrawl.Document, error)
	UpsertDocumentFn    func(ctx context.Context, doc *searchcrawl.Document) error
	TouchDocumentFn     func(ctx context.Context, url string, checkedAt time.Time) error
}

func (s *DocumentService) FindDocumentByURL(ctx context.Context, url string) (*searchcrawl.Document, error) {
	return s.FindDocumentByURLFn(ctx, url)
}

func (s *DocumentService) UpsertDocument(ctx context.Context, doc *searchcrawl.Document) error {
	return s.UpsertDocumentFn(ctx, doc)
}

func (s *DocumentService) TouchDocument(ctx context.Context, url string, checkedAt time.Time) error {
	return s.TouchDocumentFn(ctx, url, checkedAt)
}

var _ searchcrawl.ChangeDetector = (*ChangeDetector)(nil)

// ChangeDetector is a mock implementation of searchcrawl.ChangeDetector.
type ChangeDetector struct {
	ShouldRecrawlFn func(ctx context.Context, url string, lastmod *time.Time) (bool, error)
	RecordFn        func(ctx context.Context, url, html, sourceName string) (bool, error)
}

func (d *ChangeDetector) ShouldRecrawl(ctx context.Context, url string, lastmod *time.Time) (bool, error) {
	return d.ShouldRecrawlFn(ctx, url, lastmod)
}

func (d *ChangeDetector) Record(ctx context.Context, url, html, sourceName string) (bool, error) {
	return d.RecordFn(ctx, url, html, sourceName)
}
