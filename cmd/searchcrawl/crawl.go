package main

import "fmt"

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	result, err := deps.Scheduler.Run(deps.Ctx)
	if err != nil {
		// The scheduler has already checkpointed the frontier; report the
		// failure with full context and end the run.
		deps.Logger.Error("crawl run failed", "err", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "processed %d documents (%d changed, %d skipped, %d failed)\n",
		result.Processed, result.Changed, result.Skipped, result.Failed)
	return nil
}
