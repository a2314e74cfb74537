package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"golang.org/x/text/width"

	"github.com/japaniel/kanjikai/pkg/display"
	"github.com/japaniel/kanjikai/pkg/subject"
)

// displayWidth counts wide and full-width runes as two columns so that
// Japanese text lines up.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func newTable(w io.Writer, headers ...interface{}) table.Table {
	return table.New(headers...).WithWriter(w).WithWidthFunc(displayWidth)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (e *env) readings(rs []string) string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = e.disp.FormatReading(r)
	}
	return orDash(strings.Join(out, "、"))
}

func (e *env) class(k *subject.Kanji) display.Class {
	if e.tables.Empty() {
		return display.ClassForGrade(k.Grade)
	}
	return e.tables.Class(k.Literal)
}

func (e *env) renderKanji(w io.Writer, k *subject.Kanji) {
	tbl := newTable(w, "Kanji", k.Literal)
	tbl.AddRow("Meanings", orDash(strings.Join(k.Meanings, ", ")))
	tbl.AddRow("Kun", e.readings(k.KunReadings))
	tbl.AddRow("On", e.readings(k.OnReadings))
	if len(k.NameReadings) > 0 {
		tbl.AddRow("Name", e.readings(k.NameReadings))
	}
	tbl.AddRow("Strokes", k.StrokeCount)
	tbl.AddRow("Grade", k.GradeLabel())
	tbl.AddRow("JLPT", k.JLPTLabel())
	tbl.AddRow("Class", e.class(k))
	tbl.AddRow("Unicode", k.UnicodeLabel())
	if k.Heisig != "" {
		tbl.AddRow("Heisig", k.Heisig)
	}
	tbl.Print()
}

func (e *env) renderReading(w io.Writer, r *subject.Reading) {
	tbl := newTable(w, "Reading", e.disp.FormatReading(r.Reading))
	tbl.AddRow("Main", orDash(strings.Join(r.MainKanji, " ")))
	tbl.AddRow("Name", orDash(strings.Join(r.NameKanji, " ")))
	tbl.Print()
}

// renderWords prints at most limit words. A limit <= 0 prints all of them.
func (e *env) renderWords(w io.Writer, words []subject.Word, limit int) {
	if len(words) == 0 {
		fmt.Fprintln(w, "no words")
		return
	}
	shown := words
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	tbl := newTable(w, "Word", "Reading", "Meaning")
	for _, word := range shown {
		tbl.AddRow(word.Written, e.disp.FormatReading(word.Pronounced), orDash(strings.Join(word.MeaningLines(), "; ")))
	}
	tbl.Print()
	if len(shown) < len(words) {
		fmt.Fprintf(w, "... %d more\n", len(words)-len(shown))
	}
}
