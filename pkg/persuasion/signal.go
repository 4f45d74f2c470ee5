// Package persuasion detects behavioral signals in user utterances and
// assembles configured objection responses that feed prompt assembly and
// stage transitions. No signal kind, keyword, or response string is
// hardcoded; everything is read from a loaded configuration.
package persuasion

import (
	"regexp"

	"github.com/vaak-ai/voicecore/pkg/frame"
)

// SignalPattern is one configured keyword/regex rule for a signal kind, in
// a given language.
type SignalPattern struct {
	Kind     string
	Language string
	Regex    string
	Weight   float64
}

type compiledSignalPattern struct {
	kind   string
	re     *regexp.Regexp
	weight float64
}

// Detector runs per-language signal patterns against user utterances,
// emitting frame.Signal values the same way C5's ValidationFailure does.
type Detector struct {
	byLanguage map[string][]compiledSignalPattern
}

// NewDetector compiles every configured pattern, grouped by language, up
// front so a bad config fails at startup.
func NewDetector(patterns []SignalPattern) (*Detector, error) {
	byLanguage := make(map[string][]compiledSignalPattern)
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, err
		}
		byLanguage[p.Language] = append(byLanguage[p.Language], compiledSignalPattern{
			kind:   p.Kind,
			re:     re,
			weight: p.Weight,
		})
	}
	return &Detector{byLanguage: byLanguage}, nil
}

// Detect returns one frame.Signal per matching pattern for text in the
// given language.
func (d *Detector) Detect(text, language string, atMS int64) []frame.Signal {
	var signals []frame.Signal
	for _, p := range d.byLanguage[language] {
		if p.re.MatchString(text) {
			signals = append(signals, frame.Signal{
				Kind:         p.kind,
				Weight:       p.weight,
				DetectedAtMS: atMS,
			})
		}
	}
	return signals
}
