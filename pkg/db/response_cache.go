package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ResponseCache stores successful response bodies. Reads go straight to the
// database; writes are batched.
type ResponseCache struct {
	conn *sql.DB
	bw   *BatchWriter
	now  func() time.Time
}

// NewResponseCache wraps conn. batchSize and flushInterval configure the
// underlying BatchWriter.
func NewResponseCache(conn *sql.DB, batchSize int, flushInterval time.Duration) *ResponseCache {
	return &ResponseCache{
		conn: conn,
		bw:   NewBatchWriter(conn, batchSize, flushInterval),
		now:  time.Now,
	}
}

// Get returns the cached body for path. A miss is not an error.
func (c *ResponseCache) Get(ctx context.Context, path string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r, err := GetResponse(c.conn, path)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return r.Body, true, nil
}

// Put schedules body to be stored for path.
func (c *ResponseCache) Put(path string, body []byte) error {
	fetchedAt := c.now()
	stored := append([]byte(nil), body...)
	return c.bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return PutResponse(tx, path, stored, fetchedAt)
	})
}

// Flush hands buffered writes to the committer.
func (c *ResponseCache) Flush() { c.bw.Flush() }

// Close commits pending writes. It does not close the database.
func (c *ResponseCache) Close() error { return c.bw.Close() }
