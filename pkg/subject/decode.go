package subject

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField is returned when a payload lacks its identifying field.
var ErrMissingField = errors.New("missing field")

// ParseKanji decodes a kanji-by-literal response.
func ParseKanji(body []byte) (*Kanji, error) {
	var k Kanji
	if err := json.Unmarshal(body, &k); err != nil {
		return nil, fmt.Errorf("decode kanji: %w", err)
	}
	if k.Literal == "" {
		return nil, fmt.Errorf("decode kanji: %w: kanji", ErrMissingField)
	}
	return &k, nil
}

// ParseReading decodes a reading-by-kana response.
func ParseReading(body []byte) (*Reading, error) {
	var r Reading
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode reading: %w", err)
	}
	if r.Reading == "" {
		return nil, fmt.Errorf("decode reading: %w: reading", ErrMissingField)
	}
	return &r, nil
}

type wordVariant struct {
	Written    string `json:"written"`
	Pronounced string `json:"pronounced"`
}

// wordEntry accepts both the flattened corpus shape (one "variant") and the
// API shape ("variants"); each variant becomes its own Word.
type wordEntry struct {
	Variant  *wordVariant  `json:"variant"`
	Variants []wordVariant `json:"variants"`
	Meanings []Meaning     `json:"meanings"`
}

// ParseWords decodes the word corpus, preserving corpus order.
func ParseWords(body []byte) ([]Word, error) {
	var entries []wordEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}

	words := make([]Word, 0, len(entries))
	for _, e := range entries {
		variants := e.Variants
		if e.Variant != nil {
			variants = []wordVariant{*e.Variant}
		}
		for _, v := range variants {
			if v.Written == "" {
				continue
			}
			words = append(words, Word{
				Written:    v.Written,
				Pronounced: v.Pronounced,
				Meanings:   e.Meanings,
			})
		}
	}
	return words, nil
}
