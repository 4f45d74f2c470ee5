package dialogue

import (
	"strings"

	"github.com/vaak-ai/voicecore/pkg/lang"
)

// normalizeText lowercases, collapses whitespace, folds script-native
// digits to ASCII, and expands numbering-scale multiplier words, exactly
// the order spec.md's extraction algorithm step 1 specifies. The
// digit/multiplier tables are shared with pkg/tts/normalize.go via
// pkg/lang so the two components never drift apart.
func normalizeText(text, langCode string) string {
	text = strings.ToLower(text)
	text = strings.Join(strings.Fields(text), " ")
	text = lang.NormalizeDigits(text, langCode)
	text = lang.ExpandMultipliers(text, langCode)
	return text
}
