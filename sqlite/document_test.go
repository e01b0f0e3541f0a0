package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/searchcrawl"
	"github.com/fwojciec/searchcrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument(url string) *searchcrawl.Document {
	now := time.Now().UTC().Truncate(time.Second)
	return &searchcrawl.Document{
		URL:           url,
		HTMLContent:   "<html><body>hello</body></html>",
		SourceName:    "blog",
		ContentHash:   "deadbeefdeadbeef",
		CrawlDate:     now,
		LastCheckDate: now,
	}
}

func TestDocumentService_UpsertDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates and finds document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := testDocument("http://example.com/page1")
		require.NoError(t, svc.UpsertDocument(ctx, doc))

		found, err := svc.FindDocumentByURL(ctx, doc.URL)
		require.NoError(t, err)
		assert.Equal(t, doc.URL, found.URL)
		assert.Equal(t, doc.HTMLContent, found.HTMLContent)
		assert.Equal(t, doc.SourceName, found.SourceName)
		assert.Equal(t, doc.ContentHash, found.ContentHash)
		assert.Equal(t, doc.CrawlDate.Unix(), found.CrawlDate.Unix())
	})

	t.Run("replaces existing document in place", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := testDocument("http://example.com/page1")
		require.NoError(t, svc.UpsertDocument(ctx, doc))

		doc.HTMLContent = "<html><body>changed</body></html>"
		doc.ContentHash = "cafebabecafebabe"
		require.NoError(t, svc.UpsertDocument(ctx, doc))

		found, err := svc.FindDocumentByURL(ctx, doc.URL)
		require.NoError(t, err)
		assert.Equal(t, "cafebabecafebabe", found.ContentHash)

		// Still exactly one row for the URL.
		var count int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE url = ?", doc.URL).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("returns error for invalid document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.UpsertDocument(context.Background(), &searchcrawl.Document{})
		require.Error(t, err)
		assert.Equal(t, searchcrawl.EINVALID, searchcrawl.ErrorCode(err))
	})
}

func TestDocumentService_FindDocumentByURL(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for unknown URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		_, err := svc.FindDocumentByURL(context.Background(), "http://example.com/missing")
		require.Error(t, err)
		assert.Equal(t, searchcrawl.ENOTFOUND, searchcrawl.ErrorCode(err))
	})
}

func TestDocumentService_TouchDocument(t *testing.T) {
	t.Parallel()

	t.Run("advances last_check_date only", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := testDocument("http://example.com/page1")
		require.NoError(t, svc.UpsertDocument(ctx, doc))

		later := doc.LastCheckDate.Add(2 * time.Hour)
		require.NoError(t, svc.TouchDocument(ctx, doc.URL, later))

		found, err := svc.FindDocumentByURL(ctx, doc.URL)
		require.NoError(t, err)
		assert.Equal(t, later.Unix(), found.LastCheckDate.Unix())
		assert.Equal(t, doc.CrawlDate.Unix(), found.CrawlDate.Unix())
		assert.Equal(t, doc.ContentHash, found.ContentHash)
	})

	t.Run("returns ENOTFOUND for unknown URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.TouchDocument(context.Background(), "http://example.com/missing", time.Now())
		require.Error(t, err)
		assert.Equal(t, searchcrawl.ENOTFOUND, searchcrawl.ErrorCode(err))
	})
}
