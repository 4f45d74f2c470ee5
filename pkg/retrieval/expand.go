package retrieval

import (
	"strings"

	"golang.org/x/text/unicode/rangetable"
)

// TermList is the configured synonym/domain-term augmentation table: each
// entry's key may match a query term and its values are appended to the
// expanded query.
type TermList map[string][]string

// Transliteration maps Devanagari-script words to a Latin rendering (and
// vice versa is handled by the reverse table a config loader builds),
// enabling script-mixed matching against a predominantly Latin-script
// corpus or the reverse.
type Transliteration map[string]string

// devanagariRange lets Expand decide whether a query needs devanagari
// transliteration at all, without scanning a word-by-word dictionary pass
// on queries that are already pure Latin script.
var devanagariRange = rangetable.New([]rune("अआइईउऊऋएऐओऔकखगघङचछजझञटठडढणतथदधनपफबभमयरलवशषसहािीुूृेैोौंःँ्")...)

// Expander performs spec.md §4.7 step 1: synonym/domain-term augmentation
// plus script-aware transliteration, merging everything into one search
// query.
type Expander struct {
	terms           TermList
	transliteration Transliteration
}

// NewExpander creates an Expander over the given configured tables.
func NewExpander(terms TermList, transliteration Transliteration) *Expander {
	return &Expander{terms: terms, transliteration: transliteration}
}

// Expand returns query text augmented with synonyms, domain terms, and
// transliterated variants, merged into a single space-joined query.
func (e *Expander) Expand(text string) string {
	words := strings.Fields(strings.ToLower(text))
	var extra []string

	for _, w := range words {
		if syns, ok := e.terms[w]; ok {
			extra = append(extra, syns...)
		}
		if containsDevanagari(w) {
			if latin, ok := e.transliteration[w]; ok {
				extra = append(extra, latin)
			}
		} else if dev, ok := e.transliteration[w]; ok {
			extra = append(extra, dev)
		}
	}

	if len(extra) == 0 {
		return text
	}
	return text + " " + strings.Join(extra, " ")
}

func containsDevanagari(word string) bool {
	for _, r := range word {
		if devanagariRange.Contains(r) {
			return true
		}
	}
	return false
}
