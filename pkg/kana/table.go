package kana

// syllable pairs a canonical romanization with its hiragana spelling.
// Katakana spellings are derived by shifting the hiragana block.
type syllable struct {
	romaji string
	kana   string
}

// table is the canonical mapping. Every romanization is unique so that
// formatting and parsing round-trip. ん and っ are handled by the
// formatter and parser directly because their spelling depends on context.
var table = []syllable{
	{"a", "あ"}, {"i", "い"}, {"u", "う"}, {"e", "え"}, {"o", "お"},

	{"ka", "か"}, {"ki", "き"}, {"ku", "く"}, {"ke", "け"}, {"ko", "こ"},
	{"kya", "きゃ"}, {"kyu", "きゅ"}, {"kyo", "きょ"},
	{"ga", "が"}, {"gi", "ぎ"}, {"gu", "ぐ"}, {"ge", "げ"}, {"go", "ご"},
	{"gya", "ぎゃ"}, {"gyu", "ぎゅ"}, {"gyo", "ぎょ"},

	{"sa", "さ"}, {"shi", "し"}, {"su", "す"}, {"se", "せ"}, {"so", "そ"},
	{"sha", "しゃ"}, {"shu", "しゅ"}, {"sho", "しょ"}, {"she", "しぇ"},
	{"za", "ざ"}, {"ji", "じ"}, {"zu", "ず"}, {"ze", "ぜ"}, {"zo", "ぞ"},
	{"ja", "じゃ"}, {"ju", "じゅ"}, {"jo", "じょ"}, {"je", "じぇ"},

	{"ta", "た"}, {"chi", "ち"}, {"tsu", "つ"}, {"te", "て"}, {"to", "と"},
	{"cha", "ちゃ"}, {"chu", "ちゅ"}, {"cho", "ちょ"}, {"che", "ちぇ"},
	{"da", "だ"}, {"di", "ぢ"}, {"du", "づ"}, {"de", "で"}, {"do", "ど"},
	{"dya", "ぢゃ"}, {"dyu", "ぢゅ"}, {"dyo", "ぢょ"},

	{"na", "な"}, {"ni", "に"}, {"nu", "ぬ"}, {"ne", "ね"}, {"no", "の"},
	{"nya", "にゃ"}, {"nyu", "にゅ"}, {"nyo", "にょ"},

	{"ha", "は"}, {"hi", "ひ"}, {"fu", "ふ"}, {"he", "へ"}, {"ho", "ほ"},
	{"hya", "ひゃ"}, {"hyu", "ひゅ"}, {"hyo", "ひょ"},
	{"fa", "ふぁ"}, {"fi", "ふぃ"}, {"fe", "ふぇ"}, {"fo", "ふぉ"},
	{"ba", "ば"}, {"bi", "び"}, {"bu", "ぶ"}, {"be", "べ"}, {"bo", "ぼ"},
	{"bya", "びゃ"}, {"byu", "びゅ"}, {"byo", "びょ"},
	{"pa", "ぱ"}, {"pi", "ぴ"}, {"pu", "ぷ"}, {"pe", "ぺ"}, {"po", "ぽ"},
	{"pya", "ぴゃ"}, {"pyu", "ぴゅ"}, {"pyo", "ぴょ"},

	{"ma", "ま"}, {"mi", "み"}, {"mu", "む"}, {"me", "め"}, {"mo", "も"},
	{"mya", "みゃ"}, {"myu", "みゅ"}, {"myo", "みょ"},

	{"ya", "や"}, {"yu", "ゆ"}, {"yo", "よ"},

	{"ra", "ら"}, {"ri", "り"}, {"ru", "る"}, {"re", "れ"}, {"ro", "ろ"},
	{"rya", "りゃ"}, {"ryu", "りゅ"}, {"ryo", "りょ"},

	{"wa", "わ"}, {"wi", "ゐ"}, {"we", "ゑ"}, {"wo", "を"},
	{"vu", "ゔ"},

	{"xa", "ぁ"}, {"xi", "ぃ"}, {"xu", "ぅ"}, {"xe", "ぇ"}, {"xo", "ぉ"},
	{"xya", "ゃ"}, {"xyu", "ゅ"}, {"xyo", "ょ"}, {"xwa", "ゎ"},
	{"xka", "ゕ"}, {"xke", "ゖ"}, {"xtsu", "っ"},
}

// aliases are accepted when parsing romaji but never produced.
var aliases = map[string]string{
	"si": "し", "ti": "ち", "tu": "つ", "hu": "ふ", "zi": "じ",
	"sya": "しゃ", "syu": "しゅ", "syo": "しょ",
	"tya": "ちゃ", "tyu": "ちゅ", "tyo": "ちょ",
	"zya": "じゃ", "zyu": "じゅ", "zyo": "じょ",
	"jya": "じゃ", "jyu": "じゅ", "jyo": "じょ",
	"la": "ぁ", "li": "ぃ", "lu": "ぅ", "le": "ぇ", "lo": "ぉ",
	"lya": "ゃ", "lyu": "ゅ", "lyo": "ょ",
	"xtu": "っ", "ltu": "っ", "ltsu": "っ",
}

var (
	toKana   = make(map[string]string, len(table)+len(aliases))
	toRomaji = make(map[string]string, len(table))
)

func init() {
	for _, s := range table {
		toKana[s.romaji] = s.kana
		toRomaji[s.kana] = s.romaji
	}
	for r, k := range aliases {
		toKana[r] = k
	}
}

// Syllables returns every canonical (romaji, hiragana) pair.
func Syllables() [][2]string {
	out := make([][2]string, 0, len(table))
	for _, s := range table {
		out = append(out, [2]string{s.romaji, s.kana})
	}
	return out
}
