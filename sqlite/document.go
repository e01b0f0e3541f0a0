package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/searchcrawl"
)

// Compile-time interface verification.
var _ searchcrawl.DocumentService = (*DocumentService)(nil)

// DocumentService implements searchcrawl.DocumentService using SQLite.
// The normalized URL is the primary key: upserts replace in place.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// FindDocumentByURL retrieves a document by its normalized URL.
func (s *DocumentService) FindDocumentByURL(ctx context.Context, url string) (*searchcrawl.Document, error) {
	var doc searchcrawl.Document
	var crawlDate, lastCheckDate int64

	err := s.db.QueryRowContext(ctx, `
		SELECT url, html_content, source_name, content_hash, crawl_date, last_check_date
		FROM documents
		WHERE url = ?
	`, url).Scan(&doc.URL, &doc.HTMLContent, &doc.SourceName, &doc.ContentHash, &crawlDate, &lastCheckDate)

	if err == sql.ErrNoRows {
		return nil, searchcrawl.Errorf(searchcrawl.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.CrawlDate = time.Unix(crawlDate, 0).UTC()
	doc.LastCheckDate = time.Unix(lastCheckDate, 0).UTC()

	return &doc, nil
}

// UpsertDocument creates or fully replaces the document keyed by its URL.
func (s *DocumentService) UpsertDocument(ctx context.Context, doc *searchcrawl.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (url, html_content, source_name, content_hash, crawl_date, last_check_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			html_content = excluded.html_content,
			source_name = excluded.source_name,
			content_hash = excluded.content_hash,
			crawl_date = excluded.crawl_date,
			last_check_date = excluded.last_check_date
	`, doc.URL, doc.HTMLContent, doc.SourceName, doc.ContentHash,
		doc.CrawlDate.Unix(), doc.LastCheckDate.Unix())

	return err
}

// TouchDocument advances last_check_date without rewriting content.
func (s *DocumentService) TouchDocument(ctx context.Context, url string, checkedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET last_check_date = ? WHERE url = ?
	`, checkedAt.Unix(), url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return searchcrawl.Errorf(searchcrawl.ENOTFOUND, "document not found")
	}

	return nil
}
