package searchcrawl

import (
	"context"
	"time"
)

// Source is a configured crawl origin: a name used to tag discovered
// documents and the base URL where discovery starts.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FrontierEntry is one unit of pending crawl work. URL is always the
// normalized form. Lastmod carries the sitemap <lastmod> value when present.
type FrontierEntry struct {
	URL        string     `json:"url"`
	SourceName string     `json:"sourceName"`
	Lastmod    *time.Time `json:"lastmod,omitempty"`
}

// Frontier is the durable work queue of pending URLs. Entries are consumed
// in FIFO order. Persist and Restore checkpoint the queue so a restarted run
// resumes where the previous one stopped.
type Frontier interface {
	// Push appends an entry to the tail of the queue.
	Push(entry FrontierEntry)

	// Pop removes and returns the head of the queue.
	// The bool result is false if the queue is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of queued entries.
	Len() int

	// Persist replaces the durable queue snapshot with the current
	// in-memory sequence.
	Persist(ctx context.Context) error

	// Restore loads the persisted queue, replacing any in-memory state.
	// Returns true if a non-empty queue was restored.
	Restore(ctx context.Context) (bool, error)
}

// QueueService is the durable storage behind a Frontier.
type QueueService interface {
	// ReplaceQueue atomically replaces the stored queue with entries,
	// preserving their order. Storage deduplicates on URL.
	ReplaceQueue(ctx context.Context, entries []FrontierEntry) error

	// LoadQueue returns all stored entries in their persisted order.
	LoadQueue(ctx context.Context) ([]FrontierEntry, error)
}
