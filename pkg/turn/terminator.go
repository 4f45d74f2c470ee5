package turn

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/rangetable"
)

var (
	asciiTerminators      = rangetable.New('.', '?', '!')
	devanagariTerminators = rangetable.New('।', '॥') // Hindi, Marathi, Nepali
	bengaliTerminators    = rangetable.New('।', '॥') // Bengali, Assamese
)

// scriptTerminators maps a language's base tag to its script-specific
// sentence-final punctuation, on top of the ASCII set which always applies.
var scriptTerminators = map[language.Base]*unicode.RangeTable{
	mustBase(language.Hindi):            devanagariTerminators,
	mustBase(language.Bengali):          bengaliTerminators,
	mustBase(language.Marathi):          devanagariTerminators,
	mustBase(language.Nepali):           devanagariTerminators,
	mustBase(language.MustParse("as")):  bengaliTerminators,
}

func mustBase(tag language.Tag) language.Base {
	base, _ := tag.Base()
	return base
}

// HasSentenceTerminator reports whether text, ignoring trailing whitespace,
// ends in a sentence-final punctuation mark. ASCII '.', '?', '!' are always
// accepted; langCode (a BCP-47 tag, e.g. "hi-IN") additionally selects a
// script-specific terminator set when recognized.
func HasSentenceTerminator(text, langCode string) bool {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return false
	}
	runes := []rune(trimmed)
	last := runes[len(runes)-1]

	if unicode.Is(asciiTerminators, last) {
		return true
	}

	tag, err := language.Parse(langCode)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	if table, ok := scriptTerminators[base]; ok {
		return unicode.Is(table, last)
	}
	return false
}
