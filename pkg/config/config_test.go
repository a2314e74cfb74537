package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:      "https://kanjiapi.dev/v1",
			Timeout:      10 * time.Second,
			CorpusPath:   "words",
			MaxBodyBytes: 1 << 20,
		},
		Cache:  CacheConfig{BatchSize: 50},
		Lookup: LookupConfig{Workers: 4},
		Log:    LogConfig{Level: "error"},
	}
}

func TestLoadDefaults(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("KANJIKAI_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://kanjiapi.dev/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "words", cfg.API.CorpusPath)
	assert.Equal(t, int64(64<<20), cfg.API.MaxBodyBytes)
	assert.Equal(t, "", cfg.Cache.DBPath)
	assert.Equal(t, 50, cfg.Cache.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Cache.FlushInterval)
	assert.False(t, cfg.Lookup.RetryFailed)
	assert.Equal(t, 4, cfg.Lookup.Workers)
	assert.False(t, cfg.Display.Romaji)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("KANJIKAI_CONFIG", "")
	t.Setenv("KANJIKAI_API_URL", "http://localhost:8080")
	t.Setenv("KANJIKAI_RETRY_FAILED", "true")
	t.Setenv("KANJIKAI_WORKERS", "8")
	t.Setenv("KANJIKAI_LOG", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.True(t, cfg.Lookup.RetryFailed)
	assert.Equal(t, 8, cfg.Lookup.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kanjikai.yaml")
	yaml := "api:\n  base_url: http://example.test/v1\n  timeout: 3s\ncache:\n  db_path: /tmp/kanjikai.db\ndisplay:\n  romaji: true\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("KANJIKAI_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/v1", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/kanjikai.db", cfg.Cache.DBPath)
	assert.True(t, cfg.Display.Romaji)
	// Unset keys keep their defaults.
	assert.Equal(t, 4, cfg.Lookup.Workers)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("KANJIKAI_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"relative url", func(c *Config) { c.API.BaseURL = "kanjiapi.dev" }, false},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, false},
		{"zero body limit", func(c *Config) { c.API.MaxBodyBytes = 0 }, false},
		{"blank corpus path", func(c *Config) { c.API.CorpusPath = " " }, false},
		{"zero batch", func(c *Config) { c.Cache.BatchSize = 0 }, false},
		{"zero workers", func(c *Config) { c.Lookup.Workers = 0 }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"upper case level", func(c *Config) { c.Log.Level = "DEBUG" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// testChdir changes the working directory for the duration of the test,
// restoring it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
