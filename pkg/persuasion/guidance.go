package persuasion

import (
	"strings"

	"github.com/vaak-ai/voicecore/pkg/frame"
)

// BuildGuidance turns a batch of detected signals into the
// personalization_instructions text prompt assembly injects into the
// system prompt: for every signal whose kind matches a configured
// objection, its ACRE response is rendered; other signals are noted by
// kind for general awareness.
func BuildGuidance(signals []frame.Signal, lib ObjectionLibrary) string {
	if len(signals) == 0 {
		return ""
	}

	var b strings.Builder
	seen := make(map[string]bool)
	for _, sig := range signals {
		if seen[sig.Kind] {
			continue
		}
		seen[sig.Kind] = true

		if resp, ok := lib.RespondTo(sig.Kind); ok {
			b.WriteString("Detected ")
			b.WriteString(sig.Kind)
			b.WriteString(":\n")
			b.WriteString(resp.Render())
			b.WriteString("\n")
			continue
		}
		b.WriteString("Detected signal: ")
		b.WriteString(sig.Kind)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
