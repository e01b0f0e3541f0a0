// Package config loads the crawler configuration from a YAML file.
// Configuration is read once at startup; missing or invalid configuration is
// fatal before the run starts and never mid-run.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/searchcrawl"
)

// Defaults applied when the corresponding key is absent.
const (
	DefaultRecheckInterval = 86400 * time.Second
	DefaultUserAgent       = "SearchBot/1.0"
	DefaultDBPath          = "searchcrawl.db"
)

// SourceCap is the hard per-source discovery limit. It is a fixed constant
// rather than a tunable: sources large enough to hit it need sharding, not a
// bigger queue.
const SourceCap = 15000

// Config captures the full configuration of a crawler process.
type Config struct {
	Logic LogicConfig `yaml:"logic"`
	DB    DBConfig    `yaml:"db"`
}

// LogicConfig holds the crawl tunables.
type LogicConfig struct {
	// Delay is the politeness delay between fetches, in seconds. Required: a
	// config that forgot it should fail at startup rather than crawl without
	// pacing. A robots crawl-delay can raise the effective value at runtime
	// but never lower it.
	Delay *float64 `yaml:"delay"`

	// Sources are the crawl origins.
	Sources []SourceConfig `yaml:"sources"`

	// RecheckInterval is the age, in seconds, after which an unchanged
	// document becomes due for re-fetching. Defaults to one day.
	RecheckInterval int `yaml:"recheck_interval"`

	// UserAgent is sent on every outbound request.
	UserAgent string `yaml:"user_agent"`

	// RespectRobotsTXT enables robots.txt enforcement. Defaults to true.
	RespectRobotsTXT *bool `yaml:"respect_robots_txt"`

	// DedupFrontier enables push-time URL deduplication in the frontier.
	// Off by default: the queue tolerates duplicates and storage collapses
	// them at checkpoint time.
	DedupFrontier bool `yaml:"dedup_frontier"`
}

// SourceConfig declares one crawl origin.
type SourceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DBConfig describes the storage location.
type DBConfig struct {
	// Path is the SQLite database file. ":memory:" is accepted for tests.
	Path string `yaml:"path"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logic.RecheckInterval <= 0 {
		c.Logic.RecheckInterval = int(DefaultRecheckInterval / time.Second)
	}
	if c.Logic.UserAgent == "" {
		c.Logic.UserAgent = DefaultUserAgent
	}
	if c.Logic.RespectRobotsTXT == nil {
		respect := true
		c.Logic.RespectRobotsTXT = &respect
	}
	if c.DB.Path == "" {
		c.DB.Path = DefaultDBPath
	}
}

// Validate returns an error describing the first invalid field found.
func (c *Config) Validate() error {
	if c.Logic.Delay == nil {
		return searchcrawl.Errorf(searchcrawl.EINVALID, "logic.delay is required")
	}
	if *c.Logic.Delay < 0 {
		return searchcrawl.Errorf(searchcrawl.EINVALID, "logic.delay must not be negative")
	}
	if len(c.Logic.Sources) == 0 {
		return searchcrawl.Errorf(searchcrawl.EINVALID, "logic.sources must list at least one source")
	}
	for i, s := range c.Logic.Sources {
		if s.URL == "" {
			return searchcrawl.Errorf(searchcrawl.EINVALID, "logic.sources[%d] (%q) has no URL", i, s.Name)
		}
	}
	return nil
}

// Delay returns the politeness delay as a duration.
func (c *Config) Delay() time.Duration {
	if c.Logic.Delay == nil {
		return 0
	}
	return time.Duration(*c.Logic.Delay * float64(time.Second))
}

// RecheckInterval returns the recheck interval as a duration.
func (c *Config) RecheckInterval() time.Duration {
	return time.Duration(c.Logic.RecheckInterval) * time.Second
}

// RespectRobots reports whether robots.txt enforcement is enabled.
func (c *Config) RespectRobots() bool {
	return c.Logic.RespectRobotsTXT == nil || *c.Logic.RespectRobotsTXT
}

// Sources returns the configured sources as domain types, skipping entries
// without a name by labeling them "unknown".
func (c *Config) Sources() []searchcrawl.Source {
	sources := make([]searchcrawl.Source, 0, len(c.Logic.Sources))
	for _, s := range c.Logic.Sources {
		name := s.Name
		if name == "" {
			name = "unknown"
		}
		sources = append(sources, searchcrawl.Source{Name: name, URL: s.URL})
	}
	return sources
}
