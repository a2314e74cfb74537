package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when no response is cached for a path.
var ErrNotFound = errors.New("response not cached")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// PutResponse inserts or replaces the cached body for path.
func PutResponse(db DBExecutor, path string, body []byte, fetchedAt time.Time) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return fmt.Errorf("path must be non-empty")
	}
	if len(body) == 0 {
		return fmt.Errorf("body must be non-empty")
	}
	_, err := db.Exec(`INSERT INTO responses (path, body, fetched_at)
			  VALUES (?, ?, ?)
			  ON CONFLICT(path) DO UPDATE SET
			    body = excluded.body,
			    fetched_at = excluded.fetched_at`,
		trimmed, body, fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert response %s: %w", trimmed, err)
	}
	return nil
}

// GetResponse returns the cached response for path, or ErrNotFound.
func GetResponse(db DBExecutor, path string) (*Response, error) {
	r := Response{Path: path}
	var fetched int64
	err := db.QueryRow(`SELECT body, fetched_at FROM responses WHERE path = ?`, path).Scan(&r.Body, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query response %s: %w", path, err)
	}
	r.FetchedAt = time.Unix(fetched, 0)
	return &r, nil
}

// ResponseStats returns the number and total size of cached responses.
func ResponseStats(db DBExecutor) (Stats, error) {
	var s Stats
	var oldest, newest sql.NullInt64
	err := db.QueryRow(`SELECT COUNT(*), IFNULL(SUM(LENGTH(body)), 0), MIN(fetched_at), MAX(fetched_at) FROM responses`).
		Scan(&s.Count, &s.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("query response stats: %w", err)
	}
	if oldest.Valid {
		s.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		s.Newest = time.Unix(newest.Int64, 0)
	}
	return s, nil
}

// ListPaths returns the cached paths in lexical order.
func ListPaths(db DBExecutor) ([]string, error) {
	rows, err := db.Query(`SELECT path FROM responses ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteResponses removes every cached response and returns how many were
// removed.
func DeleteResponses(db DBExecutor) (int64, error) {
	res, err := db.Exec(`DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("delete responses: %w", err)
	}
	return res.RowsAffected()
}
