// Package query decides what kind of dictionary subject a search string
// denotes and derives the cache key for it.
package query

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/japaniel/kanjikai/pkg/kana"
)

// Kind is the classification of a search string.
type Kind int

const (
	Invalid Kind = iota
	Kanji
	Reading
)

func (k Kind) String() string {
	switch k {
	case Kanji:
		return "kanji"
	case Reading:
		return "reading"
	default:
		return "invalid"
	}
}

// ErrInvalid is returned for search strings that match no query shape.
var ErrInvalid = errors.New("query: invalid search string")

// Query is a classified search string. Key is empty for Invalid queries.
type Query struct {
	Kind Kind
	Key  string
}

// Valid reports whether q can be looked up.
func (q Query) Valid() bool { return q.Kind != Invalid }

// Err returns ErrInvalid for invalid queries and nil otherwise.
func (q Query) Err() error {
	if q.Kind == Invalid {
		return ErrInvalid
	}
	return nil
}

// cjkIdeographs covers the unified and compatibility ideograph blocks.
var cjkIdeographs = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3400, Hi: 0x4DBF, Stride: 1},
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1},
		{Lo: 0xF900, Hi: 0xFAFF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2A6DF, Stride: 1},
		{Lo: 0x2A700, Hi: 0x2EBEF, Stride: 1},
		{Lo: 0x2F800, Hi: 0x2FA1F, Stride: 1},
		{Lo: 0x30000, Hi: 0x323AF, Stride: 1},
	},
}

// IsKanji reports whether r is a CJK ideograph.
func IsKanji(r rune) bool { return unicode.Is(cjkIdeographs, r) }

// Spacing voicing marks left behind by width folding of half-width katakana
// are turned into their combining forms so NFC can compose them.
var voicingMarks = strings.NewReplacer("゛", "゙", "゜", "゚")

// Normalize trims the input, folds full-width Latin and half-width katakana
// to their canonical widths and composes voicing marks.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = width.Fold.String(s)
	s = voicingMarks.Replace(s)
	return norm.NFC.String(s)
}

// Classify maps a raw search string to exactly one Kind. It never fails;
// unrecognized input classifies as Invalid.
func Classify(raw string) Query {
	s := Normalize(raw)
	if s == "" {
		return Query{}
	}

	if utf8.RuneCountInString(s) == 1 {
		if r, _ := utf8.DecodeRuneInString(s); IsKanji(r) {
			return Query{Kind: Kanji, Key: s}
		}
	}

	if isReading(s) {
		return Query{Kind: Reading, Key: s}
	}

	if k, ok := kana.FromRomaji(s); ok && isReading(k) {
		return Query{Kind: Reading, Key: k}
	}

	return Query{}
}

// isReading accepts kana strings written in a single script. The prolonged
// sound mark is allowed in either script but cannot stand alone.
func isReading(s string) bool {
	if !kana.IsKanaString(s) {
		return false
	}
	var hira, kata bool
	for _, r := range s {
		switch {
		case kana.IsHiragana(r):
			hira = true
		case kana.IsKatakana(r):
			kata = true
		}
	}
	return hira != kata
}
