package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "data/subscriptions.txt", cfg.Paths.SubscriptionFile)
	require.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, 10, cfg.Fetch.MaxConcurrent)
	require.Equal(t, 20, cfg.Checker.WorkerCount)
	require.Equal(t, 7*24*time.Hour, cfg.Database.MaxAge)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
paths:
  subscription_file: /tmp/subs.txt
fetch:
  timeout: 5s
  max_concurrent: 3
collectors:
  - name: main
    type: http
    params:
      url: https://example.com/sub
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/subs.txt", cfg.Paths.SubscriptionFile)
	require.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, 3, cfg.Fetch.MaxConcurrent)
	require.Len(t, cfg.Collectors, 1)
	require.Equal(t, "http", cfg.Collectors[0].Type)
	require.Equal(t, "https://example.com/sub", cfg.Collectors[0].Params["url"])

	// defaults survive partial override
	require.Equal(t, "ConfigCollector/2.0", cfg.Fetch.UserAgent)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFilterCollectors(t *testing.T) {
	cfg := &Config{Collectors: []CollectorConfig{
		{Name: "a", Type: "http"},
		{Name: "b", Type: "telegram"},
	}}

	cfg.FilterCollectors([]string{"b"})
	require.Len(t, cfg.Collectors, 1)
	require.Equal(t, "b", cfg.Collectors[0].Name)

	// empty filter keeps everything
	cfg.FilterCollectors(nil)
	require.Len(t, cfg.Collectors, 1)
}
