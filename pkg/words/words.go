// Package words associates kanji with the dictionary words written with
// them.
package words

import (
	"slices"

	"github.com/japaniel/kanjikai/pkg/subject"
)

// Index maps a character to the words whose written form contains it.
// It is immutable after construction and safe for concurrent reads.
type Index struct {
	buckets map[string][]subject.Word
	size    int
}

// NewIndex builds an index over corpus. Within a bucket words keep their
// corpus order, and a word appears once per bucket however often the
// character repeats in it.
func NewIndex(corpus []subject.Word) *Index {
	idx := make(map[string][]subject.Word)
	for _, w := range corpus {
		for _, c := range w.Characters() {
			idx[c] = append(idx[c], w)
		}
	}
	return &Index{buckets: idx, size: len(corpus)}
}

// For returns the words containing literal. The result is never nil and is
// a copy the caller may keep.
func (ix *Index) For(literal string) []subject.Word {
	bucket := ix.buckets[literal]
	if len(bucket) == 0 {
		return []subject.Word{}
	}
	return slices.Clone(bucket)
}

// Len is the number of words indexed.
func (ix *Index) Len() int { return ix.size }

// Characters is the number of distinct characters with at least one word.
func (ix *Index) Characters() int { return len(ix.buckets) }
