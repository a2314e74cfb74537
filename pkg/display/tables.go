package display

import (
	"fmt"
	"io"
	"os"
	"slices"
	"unicode"
)

// Class is the official kanji list a literal belongs to.
type Class int

const (
	ClassOther Class = iota
	ClassJoyo
	ClassJinmeiyo
)

func (c Class) String() string {
	switch c {
	case ClassJoyo:
		return "joyo"
	case ClassJinmeiyo:
		return "jinmeiyo"
	default:
		return "other"
	}
}

// Tables holds the static Joyo and Jinmeiyo membership sets. It is read-only
// after construction.
type Tables struct {
	joyo     map[string]struct{}
	jinmeiyo map[string]struct{}
}

// NewTables builds tables from the literals in each list. Whitespace and
// any other non-letter characters are ignored.
func NewTables(joyo, jinmeiyo string) *Tables {
	return &Tables{joyo: toSet(joyo), jinmeiyo: toSet(jinmeiyo)}
}

// ReadTables reads both lists from readers.
func ReadTables(joyo, jinmeiyo io.Reader) (*Tables, error) {
	j, err := readAll(joyo)
	if err != nil {
		return nil, fmt.Errorf("read joyo table: %w", err)
	}
	n, err := readAll(jinmeiyo)
	if err != nil {
		return nil, fmt.Errorf("read jinmeiyo table: %w", err)
	}
	return NewTables(j, n), nil
}

// LoadTables reads the two list files. An empty path yields an empty set.
func LoadTables(joyoPath, jinmeiyoPath string) (*Tables, error) {
	j, err := readFile(joyoPath)
	if err != nil {
		return nil, err
	}
	n, err := readFile(jinmeiyoPath)
	if err != nil {
		return nil, err
	}
	return NewTables(j, n), nil
}

func readFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open kanji table: %w", err)
	}
	defer f.Close()
	s, err := readAll(f)
	if err != nil {
		return "", fmt.Errorf("read kanji table %s: %w", path, err)
	}
	return s, nil
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	return string(b), err
}

func toSet(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range list {
		if unicode.IsLetter(r) {
			set[string(r)] = struct{}{}
		}
	}
	return set
}

// Empty reports whether no membership data was loaded.
func (t *Tables) Empty() bool {
	return t == nil || (len(t.joyo) == 0 && len(t.jinmeiyo) == 0)
}

// IsJoyo reports whether literal is in the Joyo list.
func (t *Tables) IsJoyo(literal string) bool {
	if t == nil {
		return false
	}
	_, ok := t.joyo[literal]
	return ok
}

// IsJinmeiyo reports whether literal is in the Jinmeiyo list.
func (t *Tables) IsJinmeiyo(literal string) bool {
	if t == nil {
		return false
	}
	_, ok := t.jinmeiyo[literal]
	return ok
}

// Class returns the list literal belongs to. Joyo wins if a literal is in
// both.
func (t *Tables) Class(literal string) Class {
	switch {
	case t.IsJoyo(literal):
		return ClassJoyo
	case t.IsJinmeiyo(literal):
		return ClassJinmeiyo
	default:
		return ClassOther
	}
}

// Joyo returns the Joyo literals in code point order.
func (t *Tables) Joyo() []string { return sortedKeys(t.joyoSet()) }

// Jinmeiyo returns the Jinmeiyo literals in code point order.
func (t *Tables) Jinmeiyo() []string { return sortedKeys(t.jinmeiyoSet()) }

func (t *Tables) joyoSet() map[string]struct{} {
	if t == nil {
		return nil
	}
	return t.joyo
}

func (t *Tables) jinmeiyoSet() map[string]struct{} {
	if t == nil {
		return nil
	}
	return t.jinmeiyo
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ClassForGrade derives the list from a kanji's school grade as reported by
// the dictionary API: grades 1-8 are Joyo, 9 and 10 Jinmeiyo.
func ClassForGrade(grade *int) Class {
	if grade == nil {
		return ClassOther
	}
	switch g := *grade; {
	case g >= 1 && g <= 8:
		return ClassJoyo
	case g == 9 || g == 10:
		return ClassJinmeiyo
	default:
		return ClassOther
	}
}
