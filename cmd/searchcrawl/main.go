// Command searchcrawl runs the crawler: it bootstraps or restores the
// frontier, drains it politely, and checkpoints progress so an interrupted
// run resumes where it stopped.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/fwojciec/searchcrawl"
	"github.com/fwojciec/searchcrawl/config"
	"github.com/fwojciec/searchcrawl/crawl"
	schttp "github.com/fwojciec/searchcrawl/http"
	scslog "github.com/fwojciec/searchcrawl/slog"
	"github.com/fwojciec/searchcrawl/sqlite"
)

func main() {
	// An interrupt cancels the run context; the scheduler observes it
	// between iterations and checkpoints before returning.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database behind the document and queue services.
	DB *sqlite.DB

	// Fetcher used by the scheduler; closed on shutdown.
	Fetcher searchcrawl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		if err := m.Fetcher.Close(); err != nil {
			return err
		}
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("searchcrawl"),
		kong.Description("Sitemap-driven web crawler feeding a search index."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Config and storage failures here are fatal: the run never starts.
	cfg, err := config.Load(cli.Crawl.Config)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(cfg.DB.Path)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", cfg.DB.Path, err)
	}
	defer m.Close()

	level := slog.LevelInfo
	if cli.Crawl.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run_id", uuid.New().String())

	scheduler, fetcher := buildScheduler(cfg, m.DB, logger)
	m.Fetcher = fetcher
	deps.Scheduler = scheduler
	deps.Logger = logger

	return kongCtx.Run(deps)
}

// buildScheduler wires the crawl services from configuration. The fetcher is
// returned separately so Main can close it on shutdown.
func buildScheduler(cfg *config.Config, db *sqlite.DB, logger *slog.Logger) (*crawl.Scheduler, searchcrawl.Fetcher) {
	pacer := crawl.NewPacer(cfg.Delay())

	robots := schttp.NewRobotsAuthority(cfg.Logic.UserAgent, cfg.RespectRobots(),
		schttp.WithPacer(pacer),
		schttp.WithRobotsLogger(logger),
	)

	var frontierOpts []crawl.Option
	if cfg.Logic.DedupFrontier {
		frontierOpts = append(frontierOpts, crawl.WithDedup())
	}
	frontier := crawl.NewFrontier(sqlite.NewQueueService(db), frontierOpts...)

	resolver := scslog.NewLoggingResolver(
		schttp.NewSitemapResolver(robots, frontier, cfg.Logic.UserAgent,
			schttp.WithSourceCap(config.SourceCap),
			schttp.WithRobotsFilter(cfg.RespectRobots()),
			schttp.WithSitemapLogger(logger),
		),
		logger,
	)

	fetcher := scslog.NewLoggingFetcher(
		schttp.NewFetcher(schttp.WithUserAgent(cfg.Logic.UserAgent)),
		logger,
	)

	return &crawl.Scheduler{
		Frontier: frontier,
		Resolver: resolver,
		Detector: crawl.NewChangeDetector(sqlite.NewDocumentService(db), cfg.RecheckInterval()),
		Fetcher:  fetcher,
		Pacer:    pacer,
		Sources:  cfg.Sources(),
		Logger:   logger,
	}, fetcher
}
