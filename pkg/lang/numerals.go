// Package lang holds small per-language text utilities shared by the TTS
// number-expansion pipeline (pkg/tts) and the dialogue slot extractor
// (pkg/dialogue): Indic digit normalization and South Asian numbering-scale
// multiplier words ("lakh", "crore", "hazaar"). Both consumers need the
// exact same table, so it lives once here instead of twice.
package lang

import (
	"strconv"
	"strings"
)

// digitTables maps each supported script's digit runes, in order 0-9, to
// the ASCII digit they represent.
var digitTables = map[string]string{
	"hi": "०१२३४५६७८९", // Devanagari, also covers mr, ne
	"mr": "०१२३४५६७८९",
	"ne": "०१२३४५६७८९",
	"bn": "০১২৩৪৫৬৭৮৯", // Bengali, also covers as
	"as": "০১২৩৪৫৬৭৮৯",
	"gu": "૦૧૨૩૪૫૬૭૮૯",
	"pa": "੦੧੨੩੪੫੬੭੮੯",
	"ta": "௦௧௨௩௪௫௬௭௮௯",
	"te": "౦౧౨౩౪౫౬౭౮౯",
	"kn": "೦೧೨೩೪೫೬೭೮೯",
	"ml": "൦൧൨൩൪൫൬൭൮൯",
	"ur": "۰۱۲۳۴۵۶۷۸۹",
}

// NormalizeDigits rewrites any script-native digits in text to ASCII 0-9,
// leaving ASCII digits and everything else untouched.
func NormalizeDigits(text, langCode string) string {
	table, ok := digitTables[baseLang(langCode)]
	if !ok {
		return text
	}
	runes := []rune(table)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		replaced := false
		for i, d := range runes {
			if r == d {
				b.WriteByte('0' + byte(i))
				replaced = true
				break
			}
		}
		if !replaced {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Multiplier is one numbering-scale word and the value it scales a
// preceding number by.
type Multiplier struct {
	Word  string
	Value int64
}

// multiplierTables lists South Asian numbering-scale words per language,
// largest scale first. A word matches only as a whole word, so the order
// does not affect the result.
var multiplierTables = map[string][]Multiplier{
	"hi": {
		{"arab", 1_000_000_000},
		{"crore", 10_000_000},
		{"karod", 10_000_000},
		{"lakh", 100_000},
		{"hazaar", 1_000},
		{"hazar", 1_000},
	},
	"en": {
		{"crore", 10_000_000},
		{"lakh", 100_000},
		{"thousand", 1_000},
	},
	"bn": {
		{"koti", 10_000_000},
		{"lakh", 100_000},
		{"hazar", 1_000},
	},
}

// ExpandMultipliers rewrites "<number> <multiplier-word>" occurrences in
// text (e.g. "5 lakh") into their expanded ASCII numeral ("500000"). Digits
// must already be ASCII; callers normalize with NormalizeDigits first.
func ExpandMultipliers(text, langCode string) string {
	table, ok := multiplierTables[baseLang(langCode)]
	if !ok {
		table = multiplierTables["en"]
	}

	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		w := words[i]
		if i+1 < len(words) {
			if n, ok := matchNumber(w); ok {
				if mult, ok := matchMultiplier(words[i+1], table); ok {
					out = append(out, strconv.FormatInt(n*mult, 10))
					i++
					continue
				}
			}
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

func matchNumber(w string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSuffix(w, "."), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func matchMultiplier(w string, table []Multiplier) (int64, bool) {
	lw := strings.ToLower(strings.Trim(w, ".,!?"))
	for _, m := range table {
		if lw == m.Word {
			return m.Value, true
		}
	}
	return 0, false
}

func baseLang(langCode string) string {
	if i := strings.IndexAny(langCode, "-_"); i >= 0 {
		return strings.ToLower(langCode[:i])
	}
	return strings.ToLower(langCode)
}
