// Package tts layers sentence normalization and interrupt-mode playback
// policy on top of an ai/tts backend. Backends only synthesize already
// normalized text; everything language-specific happens here.
package tts

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/vaak-ai/voicecore/pkg/lang"
)

// abbreviations expand common shortened forms before synthesis so the
// backend doesn't spell them out letter by letter. Keyed by base language;
// English entries double as the fallback for any unlisted language.
var abbreviations = map[string]map[string]string{
	"en": {
		"Rs.":  "rupees",
		"Rs":   "rupees",
		"EMI":  "E M I",
		"KYC":  "K Y C",
		"OTP":  "O T P",
		"Dr.":  "doctor",
		"Mr.":  "mister",
		"Mrs.": "missus",
	},
}

// Normalize applies NFC normalization, script-aware digit folding,
// multiplier-word expansion, and abbreviation substitution to text before
// it is handed to a synthesis backend.
func Normalize(text, langCode string) string {
	text = norm.NFC.String(text)
	text = lang.NormalizeDigits(text, langCode)
	text = lang.ExpandMultipliers(text, langCode)
	text = expandAbbreviations(text, langCode)
	return text
}

func expandAbbreviations(text, langCode string) string {
	table, ok := abbreviations[baseLanguage(langCode)]
	if !ok {
		table = abbreviations["en"]
	}
	// Longest first, so "Rs." is expanded before its prefix "Rs".
	abbrs := make([]string, 0, len(table))
	for abbr := range table {
		abbrs = append(abbrs, abbr)
	}
	sort.Slice(abbrs, func(i, j int) bool { return len(abbrs[i]) > len(abbrs[j]) })
	for _, abbr := range abbrs {
		text = strings.ReplaceAll(text, abbr, table[abbr])
	}
	return text
}

func baseLanguage(langCode string) string {
	tag, err := language.Parse(langCode)
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	return base.String()
}
