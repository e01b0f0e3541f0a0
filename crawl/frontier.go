package crawl

import (
	"context"

	"github.com/fwojciec/searchcrawl"
	"github.com/fwojciec/searchcrawl/bloom"
)

// Frontier sizing for the optional push-time deduplication filter.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 100000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ searchcrawl.Frontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO queue of pending URLs backed by durable
// storage. Push does not pre-check for duplicates unless the dedup option is
// enabled: duplicate URLs may coexist in memory and are collapsed by the
// storage layer's unique URL constraint at checkpoint time.
type Frontier struct {
	queue []searchcrawl.FrontierEntry
	store searchcrawl.QueueService
	seen  *bloom.Filter
}

// Option configures a Frontier.
type Option func(*Frontier)

// WithDedup enables push-time URL deduplication using a Bloom filter.
// A false positive silently drops a never-seen URL, so this trades a small
// chance of a missed page for a smaller queue.
func WithDedup() Option {
	return func(f *Frontier) {
		f.seen = bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate)
	}
}

// NewFrontier creates a Frontier persisting through store.
func NewFrontier(store searchcrawl.QueueService, opts ...Option) *Frontier {
	f := &Frontier{store: store}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Push appends an entry to the tail of the queue.
func (f *Frontier) Push(entry searchcrawl.FrontierEntry) {
	if f.seen != nil {
		if f.seen.Test(entry.URL) {
			return
		}
		f.seen.Add(entry.URL)
	}
	f.queue = append(f.queue, entry)
}

// Pop removes and returns the head of the queue.
// The bool result is false if the queue is empty.
func (f *Frontier) Pop() (searchcrawl.FrontierEntry, bool) {
	if len(f.queue) == 0 {
		return searchcrawl.FrontierEntry{}, false
	}
	entry := f.queue[0]
	f.queue = f.queue[1:]
	return entry, true
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// Persist replaces the durable queue snapshot with the current in-memory
// sequence. Call sites use it as a checkpoint, not a transactional append.
func (f *Frontier) Persist(ctx context.Context) error {
	return f.store.ReplaceQueue(ctx, f.queue)
}

// Restore loads the persisted queue, replacing any in-memory state.
// Returns true if a non-empty queue was restored.
func (f *Frontier) Restore(ctx context.Context) (bool, error) {
	entries, err := f.store.LoadQueue(ctx)
	if err != nil {
		return false, err
	}
	f.queue = entries
	if f.seen != nil {
		for _, e := range entries {
			f.seen.Add(e.URL)
		}
	}
	return len(entries) > 0, nil
}
