package dialogue

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/vaak-ai/voicecore/pkg/frame"
)

// compiledPattern pairs a schema Pattern with its compiled regex; compiled
// once when an Extractor is built rather than per utterance.
type compiledPattern struct {
	re         *regexp.Regexp
	confidence float64
}

// Extractor runs a Schema's ordered patterns against normalized text.
type Extractor struct {
	schema   Schema
	compiled map[string][]compiledPattern
}

// NewExtractor compiles every pattern in schema. It returns an error
// naming the offending slot and pattern if any regex fails to compile,
// since a bad config should fail at startup, not mid-conversation.
func NewExtractor(schema Schema) (*Extractor, error) {
	compiled := make(map[string][]compiledPattern, len(schema.Slots))
	for name, slot := range schema.Slots {
		pats := make([]compiledPattern, 0, len(slot.Patterns))
		for i, p := range slot.Patterns {
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("dialogue: slot %q pattern %d: %w", name, i, err)
			}
			pats = append(pats, compiledPattern{re: re, confidence: p.Confidence})
		}
		compiled[name] = pats
	}
	return &Extractor{schema: schema, compiled: compiled}, nil
}

// ExtractedValue is one slot value pulled from an utterance, before
// validation or merge.
type ExtractedValue struct {
	Slot       string
	Raw        string
	Confidence float64
}

// ValidationFailure reports why an extracted raw value was rejected
// against its slot's type constraints, the condition spec.md §4.5 step 3
// requires emitting as a `ValidationFailed` Signal.
type ValidationFailure struct {
	Slot   string
	Raw    string
	Reason string
}

func (v ValidationFailure) Error() string {
	return fmt.Sprintf("dialogue: slot %q rejected value %q: %s", v.Slot, v.Raw, v.Reason)
}

// Signal renders this rejection as the frame.Signal the pipeline emits per
// spec.md §4.5 step 3.
func (v ValidationFailure) Signal(atMS int64) frame.Signal {
	return frame.Signal{
		Kind:         "validation_failed",
		Weight:       1.0,
		DetectedAtMS: atMS,
		Detail:       v.Error(),
	}
}

// Extract normalizes text and runs every slot's ordered patterns against
// it, returning the first match per slot (pattern order is match
// priority, per spec.md §4.5 step 2).
func (e *Extractor) Extract(text, langCode string) []ExtractedValue {
	normalized := normalizeText(text, langCode)

	var out []ExtractedValue
	for name, pats := range e.compiled {
		for _, p := range pats {
			m := p.re.FindStringSubmatch(normalized)
			if m == nil {
				continue
			}
			raw := normalized
			if len(m) > 1 {
				raw = m[1]
			} else {
				raw = m[0]
			}
			out = append(out, ExtractedValue{Slot: name, Raw: raw, Confidence: p.confidence})
			break
		}
	}
	return out
}

// Validate checks one extracted value against its slot's type constraint,
// returning the typed value on success or a ValidationFailure on
// rejection.
func (e *Extractor) Validate(ev ExtractedValue) (any, error) {
	slot, ok := e.schema.Slots[ev.Slot]
	if !ok {
		return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: "unknown slot"}
	}

	switch slot.Type {
	case SlotNumber:
		n, err := strconv.ParseFloat(ev.Raw, 64)
		if err != nil {
			return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: "not a number"}
		}
		if slot.Min != nil && n < *slot.Min {
			return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: fmt.Sprintf("below min %v", *slot.Min)}
		}
		if slot.Max != nil && n > *slot.Max {
			return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: fmt.Sprintf("above max %v", *slot.Max)}
		}
		return n, nil

	case SlotBool:
		switch ev.Raw {
		case "true", "yes", "haan", "han":
			return true, nil
		case "false", "no", "nahi", "nahin":
			return false, nil
		default:
			return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: "not a recognized boolean"}
		}

	case SlotEnum:
		for _, allowed := range slot.AllowedValues {
			if ev.Raw == allowed {
				return ev.Raw, nil
			}
		}
		return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: "not in allowed_values"}

	case SlotString:
		if ev.Raw == "" {
			return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: "empty string"}
		}
		return ev.Raw, nil

	default:
		return nil, ValidationFailure{Slot: ev.Slot, Raw: ev.Raw, Reason: "unknown slot type"}
	}
}
