// Package kana converts between kana and Hepburn-style romaji.
//
// Hiragana romanizes to lowercase and katakana to uppercase, and parsing
// follows the same convention, so a reading survives a round trip through
// its romanized form with its script intact.
package kana

import "strings"

const (
	hiraganaFirst = 0x3041
	hiraganaLast  = 0x3096
	katakanaFirst = 0x30A1
	katakanaLast  = 0x30F6
	katakanaShift = katakanaFirst - hiraganaFirst

	// ProlongedSound is the long vowel mark shared by both scripts.
	ProlongedSound = 'ー'
)

// maxRomaji is the length of the longest key in toKana.
const maxRomaji = 4

// IsHiragana reports whether r is a hiragana letter covered by the mapping.
func IsHiragana(r rune) bool { return r >= hiraganaFirst && r <= hiraganaLast }

// IsKatakana reports whether r is a katakana letter covered by the mapping.
func IsKatakana(r rune) bool { return r >= katakanaFirst && r <= katakanaLast }

// IsKana reports whether r is hiragana, katakana or the prolonged sound mark.
func IsKana(r rune) bool { return IsHiragana(r) || IsKatakana(r) || r == ProlongedSound }

// IsKanaString reports whether s is non-empty and made only of kana.
func IsKanaString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if IsKatakana(r) {
			runes[i] = r - katakanaShift
		}
	}
	return string(runes)
}

// ToKatakana converts Hiragana to Katakana.
func ToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if IsHiragana(r) {
			runes[i] = r + katakanaShift
		}
	}
	return string(runes)
}

// FormatReading renders a reading for display: romanized when isRomaji is
// set, unchanged otherwise.
func FormatReading(reading string, isRomaji bool) string {
	if !isRomaji {
		return reading
	}
	return ToRomaji(reading)
}

type unitKind int

const (
	unitText unitKind = iota
	unitN
	unitSokuon
)

type unit struct {
	kind     unitKind
	text     string
	katakana bool
	raw      bool
}

// ToRomaji romanizes every kana in s. Characters outside the mapping are
// copied through unchanged.
func ToRomaji(s string) string {
	runes := []rune(s)
	units := make([]unit, 0, len(runes))
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == ProlongedSound:
			units = append(units, unit{text: "-"})
			i++
			continue
		case !IsHiragana(r) && !IsKatakana(r):
			units = append(units, unit{text: string(r), raw: true})
			i++
			continue
		}

		kata := IsKatakana(r)
		h := ToHiragana(string(r))
		switch h {
		case "ん":
			units = append(units, unit{kind: unitN, katakana: kata})
			i++
			continue
		case "っ":
			units = append(units, unit{kind: unitSokuon, katakana: kata})
			i++
			continue
		}

		if i+1 < len(runes) && IsKatakana(runes[i+1]) == kata && (IsHiragana(runes[i+1]) || IsKatakana(runes[i+1])) {
			if rom, ok := toRomaji[h+ToHiragana(string(runes[i+1]))]; ok {
				units = append(units, unit{text: rom, katakana: kata})
				i += 2
				continue
			}
		}
		if rom, ok := toRomaji[h]; ok {
			units = append(units, unit{text: rom, katakana: kata})
		} else {
			units = append(units, unit{text: string(r), raw: true})
		}
		i++
	}

	// ん and っ depend on what follows them, so resolve right to left.
	for i := len(units) - 1; i >= 0; i-- {
		u := &units[i]
		var next *unit
		if i+1 < len(units) {
			next = &units[i+1]
		}
		switch u.kind {
		case unitN:
			u.text = "n"
			if next != nil && !next.raw && next.text != "" {
				if c := next.text[0]; isVowel(c) || c == 'y' {
					u.text = "n'"
				}
			}
		case unitSokuon:
			u.text = "xtsu"
			if next != nil && !next.raw && next.text != "" {
				if c := next.text[0]; isConsonant(c) && c != 'n' {
					u.text = string(c)
				}
			}
		}
	}

	var b strings.Builder
	for _, u := range units {
		if u.katakana {
			b.WriteString(strings.ToUpper(u.text))
		} else {
			b.WriteString(u.text)
		}
	}
	return b.String()
}

// FromRomaji parses a romanized reading. Lowercase input yields hiragana and
// uppercase input yields katakana; mixed case, characters outside the
// mapping, or input without any letters are rejected.
func FromRomaji(s string) (string, bool) {
	var upper, lower bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c == '-' || c == '\'':
		default:
			return "", false
		}
	}
	if upper == lower {
		return "", false
	}

	in := strings.ToLower(s)
	var b strings.Builder
	for i := 0; i < len(in); {
		c := in[i]
		switch {
		case c == '-':
			b.WriteRune(ProlongedSound)
			i++
			continue
		case c == '\'':
			return "", false
		case c == 'n' && (i+1 == len(in) || (!isVowel(in[i+1]) && in[i+1] != 'y')):
			b.WriteString("ん")
			i++
			if i < len(in) && in[i] == '\'' {
				i++
			}
			continue
		case i+1 < len(in) && in[i+1] == c && isConsonant(c) && c != 'n':
			b.WriteString("っ")
			i++
			continue
		}

		matched := false
		for n := min(maxRomaji, len(in)-i); n > 0; n-- {
			if k, ok := toKana[in[i:i+n]]; ok {
				b.WriteString(k)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			return "", false
		}
	}

	out := b.String()
	if upper {
		out = ToKatakana(out)
	}
	return out, true
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	}
	return false
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !isVowel(c)
}
