package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/searchcrawl/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Scheduler *crawl.Scheduler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl CrawlCmd `cmd:"" default:"withargs" help:"Run one crawl pass over the configured sources"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Config  string `short:"c" default:"config.yaml" type:"path" help:"Path to the YAML configuration file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
}
