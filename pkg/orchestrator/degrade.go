package orchestrator

import "github.com/vaak-ai/voicecore/pkg/frame"

// DegradeReason names which backend triggered a degraded turn.
type DegradeReason string

const (
	DegradeLLM       DegradeReason = "llm"
	DegradeRetrieval DegradeReason = "retrieval"
	DegradeTTS       DegradeReason = "tts"
	DegradeSTT       DegradeReason = "stt"
)

// DegradationPhrases maps a reason to the configured fallback text spoken
// in place of a failed component's real output; no raw backend error text
// is ever surfaced to the user.
type DegradationPhrases map[DegradeReason]string

// DefaultDegradationPhrases is used when no config override is loaded.
func DefaultDegradationPhrases() DegradationPhrases {
	return DegradationPhrases{
		DegradeLLM:       "I'm having a little trouble right now, could you repeat that?",
		DegradeRetrieval: "Let me note that down and get back to you on the exact details.",
		DegradeTTS:       "",
		DegradeSTT:       "Sorry, I didn't catch that. Could you say it again?",
	}
}

// Phrase returns the configured fallback phrase for reason, falling back
// to a generic apology if the reason has no configured entry.
func (d DegradationPhrases) Phrase(reason DegradeReason) string {
	if p, ok := d[reason]; ok {
		return p
	}
	return "Sorry, something went wrong on my end. Let's continue."
}

// Signal builds the frame.Signal emitted alongside a degraded turn so
// telemetry and persuasion logic can observe the degradation without
// parsing conversation text.
func (reason DegradeReason) Signal(atMS int64) frame.Signal {
	return frame.Signal{
		Kind:         "degraded_" + string(reason),
		Weight:       1.0,
		DetectedAtMS: atMS,
		Detail:       string(reason) + " backend degraded",
	}
}
