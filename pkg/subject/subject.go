// Package subject holds the dictionary records returned by the remote API.
package subject

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/japaniel/kanjikai/pkg/kana"
)

// Kind discriminates the Subject variants.
type Kind int

const (
	KindKanji Kind = iota + 1
	KindReading
)

func (k Kind) String() string {
	switch k {
	case KindKanji:
		return "kanji"
	case KindReading:
		return "reading"
	default:
		return "unknown"
	}
}

// Subject is either a *Kanji or a *Reading. Values are immutable once they
// have been stored by the lookup engine.
type Subject interface {
	Kind() Kind
	// Key is the cache key the subject is stored under.
	Key() string
	isSubject()
}

// Kanji describes a single kanji literal.
type Kanji struct {
	Literal      string   `json:"kanji"`
	Grade        *int     `json:"grade"`
	StrokeCount  int      `json:"stroke_count"`
	JLPT         *int     `json:"jlpt"`
	Unicode      string   `json:"unicode"`
	Heisig       string   `json:"heisig_en,omitempty"`
	Meanings     []string `json:"meanings"`
	KunReadings  []string `json:"kun_readings"`
	OnReadings   []string `json:"on_readings"`
	NameReadings []string `json:"name_readings"`
}

func (*Kanji) Kind() Kind    { return KindKanji }
func (k *Kanji) Key() string { return k.Literal }
func (*Kanji) isSubject()    {}

// GradeLabel renders the school grade the kanji is taught in.
func (k *Kanji) GradeLabel() string {
	if k.Grade == nil {
		return "-"
	}
	switch g := *k.Grade; {
	case g >= 1 && g <= 6:
		return fmt.Sprintf("Grade %d", g)
	case g == 8:
		return "Secondary"
	case g == 9 || g == 10:
		return "Jinmeiyo"
	default:
		return strconv.Itoa(g)
	}
}

// JLPTLabel renders the JLPT level as N5..N1.
func (k *Kanji) JLPTLabel() string {
	if k.JLPT == nil {
		return "-"
	}
	return fmt.Sprintf("N%d", *k.JLPT)
}

// UnicodeLabel renders the code point as U+XXXX. The literal is used when
// the API omitted the field.
func (k *Kanji) UnicodeLabel() string {
	if k.Unicode != "" {
		return "U+" + strings.ToUpper(k.Unicode)
	}
	r, _ := utf8.DecodeRuneInString(k.Literal)
	if r == utf8.RuneError {
		return "-"
	}
	return fmt.Sprintf("U+%04X", r)
}

// Reading lists the kanji that use a kana reading.
type Reading struct {
	Reading   string   `json:"reading"`
	MainKanji []string `json:"main_kanji"`
	NameKanji []string `json:"name_kanji"`
}

func (*Reading) Kind() Kind    { return KindReading }
func (r *Reading) Key() string { return r.Reading }
func (*Reading) isSubject()    {}

// Meaning is a group of glosses sharing one sense.
type Meaning struct {
	Glosses []string `json:"glosses"`
}

// Word is a dictionary word with one written and one pronounced form.
type Word struct {
	Written    string
	Pronounced string
	Meanings   []Meaning
}

// MeaningLines renders the meaning groups for display. A single group is
// rendered bare, several groups are numbered.
func (w Word) MeaningLines() []string {
	lines := make([]string, 0, len(w.Meanings))
	for i, m := range w.Meanings {
		line := strings.Join(m.Glosses, ", ")
		if len(w.Meanings) > 1 {
			line = fmt.Sprintf("%d. %s", i+1, line)
		}
		lines = append(lines, line)
	}
	return lines
}

// Characters returns the distinct characters of the written form in order.
func (w Word) Characters() []string {
	seen := make(map[rune]struct{}, len(w.Written))
	var out []string
	for _, r := range w.Written {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, string(r))
	}
	return out
}

// Kanji returns the distinct non-kana characters of the written form, the
// ones that can be looked up in turn.
func (w Word) Kanji() []string {
	var out []string
	for _, c := range w.Characters() {
		r, _ := utf8.DecodeRuneInString(c)
		if !kana.IsKana(r) {
			out = append(out, c)
		}
	}
	return out
}
