package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mizuJSON  = `{"kanji":"水","grade":1,"stroke_count":4,"jlpt":5,"unicode":"6c34","meanings":["water"],"kun_readings":["みず"],"on_readings":["スイ"],"name_readings":[]}`
	suiJSON   = `{"reading":"すい","main_kanji":["水","吹"],"name_kanji":["翠"]}`
	wordsJSON = `[
		{"variant":{"written":"水","pronounced":"みず"},"meanings":[{"glosses":["water"]}]},
		{"variant":{"written":"水曜日","pronounced":"すいようび"},"meanings":[{"glosses":["Wednesday"]}]},
		{"variant":{"written":"日本","pronounced":"にほん"},"meanings":[{"glosses":["Japan"]}]}
	]`
)

type fixture struct {
	srv   *httptest.Server
	calls atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	testChdir(t, t.TempDir())
	t.Setenv("KANJIKAI_CONFIG", "")

	f := &fixture{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		switch r.URL.Path {
		case "/kanji/水":
			w.Write([]byte(mizuJSON))
		case "/reading/すい":
			w.Write([]byte(suiJSON))
		case "/words":
			w.Write([]byte(wordsJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) run(stdin string, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	argv := append([]string{"kanjikai", "--api-url", f.srv.URL}, args...)
	code = run(argv, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLookupKanji(t *testing.T) {
	f := newFixture(t)
	code, out, stderr := f.run("", "lookup", "水")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, out, "水")
	assert.Contains(t, out, "water")
	assert.Contains(t, out, "みず")
	assert.Contains(t, out, "Grade 1")
	assert.Contains(t, out, "N5")
	assert.Contains(t, out, "joyo")
	assert.Contains(t, out, "U+6C34")
}

func TestLookupReadingRomaji(t *testing.T) {
	f := newFixture(t)
	code, out, stderr := f.run("", "lookup", "--romaji", "sui")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, out, "sui")
	assert.Contains(t, out, "水 吹")
	assert.Contains(t, out, "翠")
}

func TestLookupWords(t *testing.T) {
	f := newFixture(t)
	code, out, stderr := f.run("", "lookup", "--words", "水")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, out, "水曜日")
	assert.Contains(t, out, "Wednesday")
	assert.NotContains(t, out, "日本")
}

func TestLookupNotFound(t *testing.T) {
	f := newFixture(t)
	code, out, _ := f.run("", "lookup", "水", "火", "@@@")
	assert.Equal(t, ExitCodeNotFound, code)
	assert.Contains(t, out, "water")
	assert.Contains(t, out, "火: not found")
	assert.Contains(t, out, "@@@: not found")
}

func TestLookupDeduplicatesRequests(t *testing.T) {
	f := newFixture(t)
	code, _, stderr := f.run("", "lookup", "すい", "sui", "すい")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestLookupUsage(t *testing.T) {
	f := newFixture(t)
	code, _, stderr := f.run("", "lookup")
	assert.Equal(t, ExitCodeUsage, code)
	assert.Contains(t, stderr, "QUERY")

	code, _, _ = f.run("", "lookup", "--no-such-flag", "水")
	assert.Equal(t, ExitCodeUsage, code)
}

func TestClassify(t *testing.T) {
	f := newFixture(t)
	code, out, stderr := f.run("", "classify", "sui", "水", "@@@")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, out, "すい")
	assert.Contains(t, out, "reading")
	assert.Contains(t, out, "kanji")
	assert.Contains(t, out, "invalid")
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestScanStdin(t *testing.T) {
	f := newFixture(t)
	code, out, stderr := f.run("水を飲む。水と火。", "scan")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, out, "水")
	assert.Contains(t, out, "飲")
	assert.Contains(t, out, "みず")
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestScanWithLookup(t *testing.T) {
	f := newFixture(t)
	code, out, stderr := f.run("水を飲む。", "scan", "--lookup")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, out, "water")
	assert.Contains(t, out, "Grade 1")
}

func TestScanFlagConflict(t *testing.T) {
	f := newFixture(t)
	code, _, _ := f.run("", "scan", "--url", "http://example.test", "--file", "x.txt")
	assert.Equal(t, ExitCodeUsage, code)
}

func TestCacheCommands(t *testing.T) {
	f := newFixture(t)
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	code, _, stderr := f.run("", "--cache-db", dbPath, "lookup", "水")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	require.Equal(t, int32(1), f.calls.Load())

	// The second run is answered from the database.
	code, out, stderr := f.run("", "--cache-db", dbPath, "lookup", "水")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, out, "water")
	assert.Equal(t, int32(1), f.calls.Load())

	code, out, _ = f.run("", "--cache-db", dbPath, "cache", "list")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, out, "kanji/%E6%B0%B4")

	code, out, _ = f.run("", "--cache-db", dbPath, "cache", "stats")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, out, "Responses")
	assert.Contains(t, out, "1")

	code, out, _ = f.run("", "--cache-db", dbPath, "cache", "clear")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, out, "removed 1 cached responses")
}

func TestCacheRequiresDatabase(t *testing.T) {
	f := newFixture(t)
	code, _, stderr := f.run("", "cache", "stats")
	assert.Equal(t, ExitCodeUsage, code)
	assert.Contains(t, stderr, "no cache database")
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 3, displayWidth("abc"))
	assert.Equal(t, 4, displayWidth("水曜"))
	assert.Equal(t, 4, displayWidth("ｓｕ"))
	assert.Equal(t, 2, displayWidth("ｽｲ"))
}

// testChdir changes the working directory for the duration of the test,
// restoring it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
