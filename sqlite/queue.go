package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/searchcrawl"
)

// Compile-time interface verification.
var _ searchcrawl.QueueService = (*QueueService)(nil)

// QueueService implements searchcrawl.QueueService using SQLite. The stored
// queue is a checkpoint snapshot, not an append log: ReplaceQueue clears the
// table and re-inserts the current sequence in one transaction.
type QueueService struct {
	db *DB
}

// NewQueueService creates a new QueueService.
func NewQueueService(db *DB) *QueueService {
	return &QueueService{db: db}
}

// ReplaceQueue atomically replaces the stored queue with entries.
// The in-memory frontier may hold duplicate URLs; the url primary key
// collapses them here, keeping the first occurrence.
func (s *QueueService) ReplaceQueue(ctx context.Context, entries []searchcrawl.FrontierEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM queue"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO queue (url, source_name, lastmod, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		var lastmod any
		if e.Lastmod != nil {
			lastmod = e.Lastmod.Unix()
		}
		if _, err := stmt.ExecContext(ctx, e.URL, e.SourceName, lastmod, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadQueue returns all stored entries in their persisted order.
func (s *QueueService) LoadQueue(ctx context.Context) ([]searchcrawl.FrontierEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, source_name, lastmod FROM queue ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []searchcrawl.FrontierEntry
	for rows.Next() {
		var e searchcrawl.FrontierEntry
		var lastmod *int64
		if err := rows.Scan(&e.URL, &e.SourceName, &lastmod); err != nil {
			return nil, err
		}
		if lastmod != nil {
			t := time.Unix(*lastmod, 0).UTC()
			e.Lastmod = &t
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
