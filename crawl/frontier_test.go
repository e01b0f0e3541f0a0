package crawl_test

import (
	"context"
	"testing"

	"github.com/fwojciec/searchcrawl"
	"github.com/fwojciec/searchcrawl/crawl"
	"github.com/fwojciec/searchcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_Pop_is_FIFO(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(&mock.QueueService{})

	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/a", SourceName: "blog"})
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/b", SourceName: "blog"})
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/c", SourceName: "blog"})

	entry, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "http://example.com/a", entry.URL)

	entry, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "http://example.com/b", entry.URL)

	entry, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "http://example.com/c", entry.URL)

	_, ok = f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_allows_duplicates_by_default(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(&mock.QueueService{})

	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/a", SourceName: "blog"})
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/a", SourceName: "news"})

	assert.Equal(t, 2, f.Len())
}

func TestFrontier_WithDedup_drops_duplicates(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(&mock.QueueService{}, crawl.WithDedup())

	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/a", SourceName: "blog"})
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/a", SourceName: "news"})
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/b", SourceName: "blog"})

	assert.Equal(t, 2, f.Len())
}

func TestFrontier_Persist_snapshots_current_sequence(t *testing.T) {
	t.Parallel()

	var persisted []searchcrawl.FrontierEntry
	store := &mock.QueueService{
		ReplaceQueueFn: func(ctx context.Context, entries []searchcrawl.FrontierEntry) error {
			persisted = append([]searchcrawl.FrontierEntry(nil), entries...)
			return nil
		},
	}

	f := crawl.NewFrontier(store)
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/a", SourceName: "blog"})
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/b", SourceName: "blog"})
	f.Pop()

	require.NoError(t, f.Persist(context.Background()))
	require.Len(t, persisted, 1)
	assert.Equal(t, "http://example.com/b", persisted[0].URL)
}

func TestFrontier_Restore(t *testing.T) {
	t.Parallel()

	t.Run("loads persisted entries in order", func(t *testing.T) {
		t.Parallel()

		store := &mock.QueueService{
			LoadQueueFn: func(ctx context.Context) ([]searchcrawl.FrontierEntry, error) {
				return []searchcrawl.FrontierEntry{
					{URL: "http://example.com/a", SourceName: "blog"},
					{URL: "http://example.com/b", SourceName: "blog"},
				}, nil
			},
		}

		f := crawl.NewFrontier(store)
		restored, err := f.Restore(context.Background())
		require.NoError(t, err)
		assert.True(t, restored)
		assert.Equal(t, 2, f.Len())

		entry, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, "http://example.com/a", entry.URL)
	})

	t.Run("reports empty persisted queue", func(t *testing.T) {
		t.Parallel()

		store := &mock.QueueService{
			LoadQueueFn: func(ctx context.Context) ([]searchcrawl.FrontierEntry, error) {
				return nil, nil
			},
		}

		f := crawl.NewFrontier(store)
		restored, err := f.Restore(context.Background())
		require.NoError(t, err)
		assert.False(t, restored)
	})
}

func TestFrontier_persist_restore_round_trip(t *testing.T) {
	t.Parallel()

	// A store with sqlite semantics: LoadQueue returns the last ReplaceQueue
	// snapshot.
	var snapshot []searchcrawl.FrontierEntry
	store := &mock.QueueService{
		ReplaceQueueFn: func(ctx context.Context, entries []searchcrawl.FrontierEntry) error {
			snapshot = append([]searchcrawl.FrontierEntry(nil), entries...)
			return nil
		},
		LoadQueueFn: func(ctx context.Context) ([]searchcrawl.FrontierEntry, error) {
			return snapshot, nil
		},
	}

	f := crawl.NewFrontier(store)
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/a", SourceName: "blog"})
	f.Push(searchcrawl.FrontierEntry{URL: "http://example.com/b", SourceName: "news"})
	require.NoError(t, f.Persist(context.Background()))

	fresh := crawl.NewFrontier(store)
	restored, err := fresh.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)

	first, _ := fresh.Pop()
	second, _ := fresh.Pop()
	assert.Equal(t, "http://example.com/a", first.URL)
	assert.Equal(t, "news", second.SourceName)
}
