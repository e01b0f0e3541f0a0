// Package crawl provides the crawl control loop and its supporting parts:
// the durable frontier, the change detector, and the politeness pacer.
package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/searchcrawl"
)

// DefaultCheckpointEvery is how many processed URLs pass between frontier
// checkpoints during a run.
const DefaultCheckpointEvery = 10

// Scheduler drives one crawl run: it restores or bootstraps the frontier,
// then drains it one URL at a time, pacing fetches and checkpointing
// progress. A single sequential worker is deliberate: it keeps the
// politeness delay meaningful as a global pacing mechanism.
type Scheduler struct {
	Frontier searchcrawl.Frontier
	Resolver searchcrawl.SitemapResolver
	Detector searchcrawl.ChangeDetector
	Fetcher  searchcrawl.Fetcher
	Pacer    searchcrawl.Pacer
	Sources  []searchcrawl.Source
	Logger   *slog.Logger

	// CheckpointEvery overrides DefaultCheckpointEvery when positive.
	CheckpointEvery int
}

// Result summarizes a completed run.
type Result struct {
	// Processed counts URLs fetched and recorded.
	Processed int
	// Changed counts processed URLs whose content hash changed.
	Changed int
	// Skipped counts URLs popped but not fetched (fresh or already visited).
	Skipped int
	// Failed counts fetch failures. Failed URLs are dropped from this pass;
	// they stay unvisited so a future run retries them.
	Failed int
}

// Run executes the crawl until the frontier drains, the context is canceled,
// or an unrecoverable error occurs. In every case the frontier is persisted
// before Run returns, so the next run resumes from the last state.
//
// A canceled context is a graceful stop, not an error: Run returns the
// partial result with a nil error.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Storage and in-flight work must finish even after a stop signal.
	runCtx := context.WithoutCancel(ctx)

	restored, err := s.Frontier.Restore(runCtx)
	if err != nil {
		return nil, err
	}
	if restored {
		logger.Info("frontier restored", "queued", s.Frontier.Len())
	} else {
		logger.Info("frontier empty, bootstrapping from sources", "sources", len(s.Sources))
		s.bootstrap(runCtx, logger)
		if err := s.Frontier.Persist(runCtx); err != nil {
			return nil, err
		}
	}

	if s.Frontier.Len() == 0 {
		logger.Warn("nothing to crawl: frontier is empty after bootstrap")
		return &Result{}, nil
	}

	result := &Result{}

	// Final checkpoint is guaranteed in every terminal state: drained,
	// interrupted, or failed.
	defer func() {
		if err := s.Frontier.Persist(runCtx); err != nil {
			logger.Error("final frontier checkpoint failed", "err", err)
		} else {
			logger.Info("frontier checkpointed", "queued", s.Frontier.Len())
		}
		logger.Info("run finished",
			"processed", result.Processed,
			"changed", result.Changed,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}()

	checkpointEvery := s.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = DefaultCheckpointEvery
	}

	visited := make(map[string]struct{})

	for {
		// The stop signal is observed between iterations only; an in-flight
		// fetch runs under its own timeout and always completes first.
		if ctx.Err() != nil {
			logger.Info("stop signal received, checkpointing")
			return result, nil
		}

		entry, ok := s.Frontier.Pop()
		if !ok {
			logger.Info("frontier drained")
			return result, nil
		}

		if _, seen := visited[entry.URL]; seen {
			result.Skipped++
			continue
		}

		recrawl, err := s.Detector.ShouldRecrawl(runCtx, entry.URL, entry.Lastmod)
		if err != nil {
			return result, err
		}
		if !recrawl {
			logger.Debug("skipping fresh document", "url", entry.URL)
			visited[entry.URL] = struct{}{}
			result.Skipped++
			continue
		}

		logger.Info("crawling",
			"n", result.Processed+1,
			"source", entry.SourceName,
			"url", entry.URL,
		)

		html, err := s.Fetcher.Fetch(runCtx, entry.URL)
		if err != nil {
			// Dropped from this pass, not marked visited: a future run
			// will evaluate the URL again.
			logger.Error("fetch failed", "url", entry.URL, "err", err)
			result.Failed++
		} else {
			changed, err := s.Detector.Record(runCtx, entry.URL, html, entry.SourceName)
			if err != nil {
				return result, err
			}
			if changed {
				result.Changed++
			}
			visited[entry.URL] = struct{}{}
			result.Processed++

			if result.Processed%checkpointEvery == 0 {
				if err := s.Frontier.Persist(runCtx); err != nil {
					return result, err
				}
				logger.Info("progress",
					"processed", result.Processed,
					"remaining", s.Frontier.Len(),
				)
			}
		}

		if err := s.Pacer.Wait(ctx); err != nil {
			// Context canceled during the politeness sleep.
			logger.Info("stop signal received, checkpointing")
			return result, nil
		}
	}
}

// bootstrap runs sitemap discovery over all configured sources. Discovery
// failures are per-source: a broken source contributes zero entries and the
// rest proceed.
func (s *Scheduler) bootstrap(ctx context.Context, logger *slog.Logger) {
	for _, source := range s.Sources {
		if source.URL == "" {
			logger.Warn("source has no URL, skipping", "source", source.Name)
			continue
		}
		logger.Info("discovering source", "source", source.Name, "url", source.URL)
		added, err := s.Resolver.Discover(ctx, source)
		if err != nil {
			logger.Error("source discovery failed", "source", source.Name, "err", err)
			continue
		}
		logger.Info("source discovered", "source", source.Name, "added", added)
	}
	logger.Info("bootstrap complete", "queued", s.Frontier.Len())
}
