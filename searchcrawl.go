// Package searchcrawl provides a polite, restartable web crawler that feeds
// a search index. It discovers documents through sitemaps, respects per-domain
// robots policy, detects content change by hash comparison, and checkpoints
// its work queue so an interrupted run resumes without re-fetching.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, crawl/).
package searchcrawl
