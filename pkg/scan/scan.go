package scan

import (
	"github.com/japaniel/kanjikai/pkg/kana"
	"github.com/japaniel/kanjikai/pkg/query"
)

// Occurrence is a kanji found in scanned text.
type Occurrence struct {
	Kanji string
	Count int
	// Words are the distinct surface forms the kanji appeared in, in order.
	Words []string
	// Readings are the hiragana readings of those forms, aligned with Words.
	// An unknown reading is empty.
	Readings []string
}

// Kanji lists the kanji in text in order of first appearance.
func (a *Analyzer) Kanji(text string) []Occurrence {
	var out []Occurrence
	pos := make(map[rune]int)
	seenWord := make(map[rune]map[string]struct{})

	for _, tok := range a.Analyze(text) {
		for _, r := range tok.Surface {
			if !query.IsKanji(r) {
				continue
			}
			i, ok := pos[r]
			if !ok {
				i = len(out)
				pos[r] = i
				seenWord[r] = make(map[string]struct{})
				out = append(out, Occurrence{Kanji: string(r)})
			}
			occ := &out[i]
			occ.Count++
			if _, dup := seenWord[r][tok.Surface]; dup {
				continue
			}
			seenWord[r][tok.Surface] = struct{}{}
			occ.Words = append(occ.Words, tok.Surface)
			occ.Readings = append(occ.Readings, kana.ToHiragana(tok.Reading))
		}
	}
	return out
}

// Literals returns the kanji of occs in order.
func Literals(occs []Occurrence) []string {
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = o.Kanji
	}
	return out
}
