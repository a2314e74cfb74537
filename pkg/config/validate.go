package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/apex/log"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL (got %q)", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0 (got %v)", c.API.Timeout)
	}
	if c.API.MaxBodyBytes <= 0 {
		return fmt.Errorf("api.max_body_bytes must be > 0 (got %d)", c.API.MaxBodyBytes)
	}
	if strings.TrimSpace(c.API.CorpusPath) == "" {
		return fmt.Errorf("api.corpus_path must be non-empty")
	}
	if c.Cache.BatchSize <= 0 {
		return fmt.Errorf("cache.batch_size must be > 0 (got %d)", c.Cache.BatchSize)
	}
	if c.Lookup.Workers <= 0 {
		return fmt.Errorf("lookup.workers must be > 0 (got %d)", c.Lookup.Workers)
	}
	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
