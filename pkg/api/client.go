// Package api talks to the remote kanji dictionary.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// Fetcher performs a single GET of an endpoint path and returns the JSON
// body. Failures are always reported as *TransportError.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) { return f(ctx, path) }

const (
	defaultUserAgent    = "kanjikai-cli"
	defaultMaxBodyBytes = 64 << 20
)

// Client is an HTTP Fetcher. It performs exactly one request per call and
// never retries.
type Client struct {
	BaseURL      string
	HTTP         *http.Client
	UserAgent    string
	MaxBodyBytes int64
	Logger       log.Interface
}

// NewClient creates a Client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTP:         &http.Client{Timeout: timeout},
		UserAgent:    defaultUserAgent,
		MaxBodyBytes: defaultMaxBodyBytes,
		Logger:       log.Log,
	}
}

// URL returns the absolute URL for an endpoint path.
func (c *Client) URL(path string) string {
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return nil, &TransportError{Path: path, Reason: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	c.logger().WithField("path", path).Debug("fetch")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	if resp.ContentLength > limit {
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode, Reason: fmt.Sprintf("content length %d exceeds limit of %d bytes", resp.ContentLength, limit)}
	}
	// Read one byte past the limit so an oversized body is detected rather
	// than silently truncated.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode, Reason: "read body", Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode, Reason: fmt.Sprintf("body exceeds limit of %d bytes", limit)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode, Reason: statusReason(resp, body)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode, Reason: "malformed JSON body", Err: errMalformed}
	}
	return body, nil
}

var errMalformed = errors.New("malformed JSON")

// statusReason prefers a message from a JSON error body over the bare status.
func statusReason(resp *http.Response, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"error", "message", "detail"} {
			if v := gjson.GetBytes(body, field); v.Type == gjson.String && v.Str != "" {
				return v.Str
			}
		}
	}
	return resp.Status
}

func (c *Client) logger() log.Interface {
	if c.Logger == nil {
		return log.Log
	}
	return c.Logger
}
