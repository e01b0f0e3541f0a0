package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/searchcrawl"
	"github.com/fwojciec/searchcrawl/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads full config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
logic:
  delay: 1.5
  recheck_interval: 3600
  user_agent: "TestBot/2.0"
  respect_robots_txt: false
  sources:
    - name: blog
      url: http://blog.example/
db:
  path: /tmp/crawl.db
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, 1500*time.Millisecond, cfg.Delay())
		assert.Equal(t, time.Hour, cfg.RecheckInterval())
		assert.Equal(t, "TestBot/2.0", cfg.Logic.UserAgent)
		assert.False(t, cfg.RespectRobots())
		assert.Equal(t, "/tmp/crawl.db", cfg.DB.Path)
		require.Len(t, cfg.Sources(), 1)
		assert.Equal(t, searchcrawl.Source{Name: "blog", URL: "http://blog.example/"}, cfg.Sources()[0])
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
logic:
  delay: 1
  sources:
    - name: blog
      url: http://blog.example/
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, 24*time.Hour, cfg.RecheckInterval())
		assert.Equal(t, config.DefaultUserAgent, cfg.Logic.UserAgent)
		assert.True(t, cfg.RespectRobots())
		assert.False(t, cfg.Logic.DedupFrontier)
		assert.Equal(t, config.DefaultDBPath, cfg.DB.Path)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "logic: [not a mapping")
		_, err := config.Load(path)
		require.Error(t, err)
	})

	t.Run("rejects config without delay", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
logic:
  sources:
    - name: blog
      url: http://blog.example/
`)
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Equal(t, searchcrawl.EINVALID, searchcrawl.ErrorCode(err))
	})

	t.Run("accepts zero delay when explicit", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
logic:
  delay: 0
  sources:
    - name: blog
      url: http://blog.example/
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), cfg.Delay())
	})

	t.Run("rejects config without sources", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "logic:\n  delay: 1\n")
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Equal(t, searchcrawl.EINVALID, searchcrawl.ErrorCode(err))
	})

	t.Run("rejects source without URL", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
logic:
  delay: 1
  sources:
    - name: broken
`)
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Equal(t, searchcrawl.EINVALID, searchcrawl.ErrorCode(err))
	})
}
