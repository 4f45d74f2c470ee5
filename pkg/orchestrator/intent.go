package orchestrator

import "regexp"

// IntentPattern is one configured regex mapped to an intent label.
type IntentPattern struct {
	Intent     string
	Regex      string
	Confidence float64
}

// IntentDetector recognizes a configured set of intents from free text by
// ordered pattern match, mirroring C5's slot-pattern extraction shape so
// the two stay consistent in how they read configuration.
type IntentDetector struct {
	compiled []compiledIntent
}

type compiledIntent struct {
	intent     string
	re         *regexp.Regexp
	confidence float64
}

// NewIntentDetector compiles every configured pattern up front so Detect
// never returns a regex compile error mid-conversation.
func NewIntentDetector(patterns []IntentPattern) (*IntentDetector, error) {
	compiled := make([]compiledIntent, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledIntent{intent: p.Intent, re: re, confidence: p.Confidence})
	}
	return &IntentDetector{compiled: compiled}, nil
}

// Detect returns the first matching intent's label, or "" if no configured
// pattern matches.
func (d *IntentDetector) Detect(text string) string {
	for _, c := range d.compiled {
		if c.re.MatchString(text) {
			return c.intent
		}
	}
	return ""
}
