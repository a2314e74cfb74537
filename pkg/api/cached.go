package api

import (
	"context"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// ResponseStore persists successful response bodies by path.
type ResponseStore interface {
	Get(ctx context.Context, path string) ([]byte, bool, error)
	Put(path string, body []byte) error
}

// CachedFetcher answers from a ResponseStore when it can and otherwise
// delegates to Next, storing what Next returns. Concurrent misses for the
// same path share one call to Next.
type CachedFetcher struct {
	Next   Fetcher
	Store  ResponseStore
	Logger log.Interface

	group singleflight.Group
}

// NewCachedFetcher wraps next with store.
func NewCachedFetcher(next Fetcher, store ResponseStore) *CachedFetcher {
	return &CachedFetcher{Next: next, Store: store, Logger: log.Log}
}

// Fetch implements Fetcher. Store failures are logged and fall through to
// the network; they never fail the fetch.
func (c *CachedFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Log
	}
	entry := logger.WithField("path", path)

	body, ok, err := c.Store.Get(ctx, path)
	if err != nil {
		entry.WithError(err).Warn("response cache read failed")
	}
	if ok {
		entry.Debug("response cache hit")
		return body, nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		body, err := c.Next.Fetch(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := c.Store.Put(path, body); err != nil {
			entry.WithError(err).Warn("response cache write failed")
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
