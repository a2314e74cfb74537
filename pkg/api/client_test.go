package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/kanjikai/pkg/query"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/kanji/水":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"kanji":"水","stroke_count":4}`))
		case "/v1/kanji/@@@":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"No such kanji"}`))
		case "/v1/broken":
			w.Write([]byte(`{"kanji":`))
		case "/v1/down":
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		case "/v1/agent":
			w.Write([]byte(`{"agent":"` + r.Header.Get("User-Agent") + `"}`))
		case "/v1/big":
			w.Write([]byte(`"` + strings.Repeat("a", 64) + `"`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetch(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/v1/", 5*time.Second)

	body, err := c.Fetch(context.Background(), "kanji/水")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kanji":"水","stroke_count":4}`, string(body))

	body, err = c.Fetch(context.Background(), "agent")
	require.NoError(t, err)
	assert.JSONEq(t, `{"agent":"kanjikai-cli"}`, string(body))
}

func TestClientFetchErrors(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/v1", 5*time.Second)

	tests := []struct {
		name     string
		path     string
		status   int
		reason   string
		notFound bool
	}{
		{"not found", "kanji/@@@", http.StatusNotFound, "No such kanji", true},
		{"unknown path", "nothing", http.StatusNotFound, "404 Not Found", true},
		{"server error", "down", http.StatusServiceUnavailable, "503 Service Unavailable", false},
		{"malformed body", "broken", http.StatusOK, "malformed JSON body", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Fetch(context.Background(), tt.path)
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.path, te.Path)
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, tt.reason, te.Reason)
			assert.Equal(t, tt.notFound, te.NotFound())
		})
	}
}

func TestClientBodyLimit(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/v1", 5*time.Second)
	c.MaxBodyBytes = 16

	_, err := c.Fetch(context.Background(), "big")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Reason, "exceeds limit")
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Fetch(context.Background(), "kanji/水")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.StatusCode)
	assert.Equal(t, "request failed", te.Reason)
	assert.NotNil(t, errors.Unwrap(te))
}

func TestTransportErrorMessage(t *testing.T) {
	assert.Equal(t, "fetch kanji/x: status 404: gone", (&TransportError{Path: "kanji/x", StatusCode: 404, Reason: "gone"}).Error())
	assert.Equal(t, "fetch kanji/x: request failed", (&TransportError{Path: "kanji/x", Reason: "request failed"}).Error())
}

func TestResolver(t *testing.T) {
	var r Resolver

	p, err := r.Path(query.Classify("水"))
	require.NoError(t, err)
	assert.Equal(t, "kanji/%E6%B0%B4", p)

	p, err = r.Path(query.Classify("sui"))
	require.NoError(t, err)
	assert.Equal(t, "reading/%E3%81%99%E3%81%84", p)

	_, err = r.Path(query.Classify("@@@"))
	assert.ErrorIs(t, err, query.ErrInvalid)

	assert.Equal(t, "words", r.WordsPath())
	assert.Equal(t, "words/all.json", Resolver{CorpusPath: "words/all.json"}.WordsPath())
}
