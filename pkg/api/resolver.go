package api

import (
	"fmt"
	"net/url"

	"github.com/japaniel/kanjikai/pkg/query"
)

// DefaultCorpusPath is the endpoint serving the whole word corpus.
const DefaultCorpusPath = "words"

// Resolver maps classified queries to endpoint paths relative to the API
// base URL.
type Resolver struct {
	CorpusPath string
}

// KanjiPath is the kanji-by-literal endpoint.
func (Resolver) KanjiPath(literal string) string {
	return "kanji/" + url.PathEscape(literal)
}

// ReadingPath is the reading-by-kana endpoint.
func (Resolver) ReadingPath(reading string) string {
	return "reading/" + url.PathEscape(reading)
}

// WordsPath returns the word corpus endpoint.
func (r Resolver) WordsPath() string {
	if r.CorpusPath == "" {
		return DefaultCorpusPath
	}
	return r.CorpusPath
}

// Path returns the endpoint that populates q.
func (r Resolver) Path(q query.Query) (string, error) {
	switch q.Kind {
	case query.Kanji:
		return r.KanjiPath(q.Key), nil
	case query.Reading:
		return r.ReadingPath(q.Key), nil
	default:
		return "", fmt.Errorf("resolve %q: %w", q.Key, query.ErrInvalid)
	}
}
