// Package dialogue tracks per-session slot state extracted from user
// utterances and tool results against a configuration-defined schema. No
// slot or goal name is hardcoded here; the schema loaded from config.Domain
// is the sole authority on what a "slot" or "goal" means for a deployment.
package dialogue

import "fmt"

// SlotType constrains the values a slot may hold.
type SlotType string

const (
	SlotNumber SlotType = "number"
	SlotString SlotType = "string"
	SlotEnum   SlotType = "enum"
	SlotBool   SlotType = "bool"
)

// Pattern is one ordered extraction rule for a slot: a regular expression
// with a capture group for the value and a confidence to attach to matches.
type Pattern struct {
	Regex      string
	Confidence float64
}

// SlotSchema declares one slot a domain config recognizes.
type SlotSchema struct {
	Name            string
	Type            SlotType
	AllowedValues   []string
	Min             *float64
	Max             *float64
	Patterns        []Pattern
	Priority        int
	RequiredForGoals []string
}

// Validate checks a schema for internal consistency a config loader must
// reject at startup rather than fail lazily during a conversation.
func (s SlotSchema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("dialogue: slot schema missing name")
	}
	switch s.Type {
	case SlotNumber, SlotString, SlotEnum, SlotBool:
	default:
		return fmt.Errorf("dialogue: slot %q has unknown type %q", s.Name, s.Type)
	}
	if s.Type == SlotEnum && len(s.AllowedValues) == 0 {
		return fmt.Errorf("dialogue: enum slot %q declares no allowed_values", s.Name)
	}
	if len(s.Patterns) == 0 {
		return fmt.Errorf("dialogue: slot %q declares no extraction patterns", s.Name)
	}
	return nil
}

// Source ranks where a SlotValue update came from; higher Source values
// win ties in Merge.
type Source int

const (
	SourceDefault Source = iota
	SourceInference
	SourceUtterance
	SourceTool
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceInference:
		return "inference"
	case SourceUtterance:
		return "utterance"
	case SourceTool:
		return "tool"
	default:
		return "unknown"
	}
}

// SlotValue is one extracted or assigned value for a slot.
type SlotValue struct {
	Value      any
	Confidence float64
	Source     Source
	UpdatedAtMS int64
}

// Goal declares the slots a conversational objective needs to proceed.
type Goal struct {
	ID               string
	RequiredSlots    []string
	OptionalSlots    []string
	PromptTemplates  map[string]string // slot_name -> prompt_template for AskSlot
}

// Schema is a loaded domain configuration: every slot and goal the
// extractor and NBA recommender are allowed to reference.
type Schema struct {
	Slots map[string]SlotSchema
	Goals map[string]Goal
	// IntentToGoal maps a detected intent label to the goal it activates.
	IntentToGoal map[string]string
}

// Validate checks cross-references: every goal's required/optional slot
// and every intent's target goal must exist in the schema.
func (s Schema) Validate() error {
	for name, slot := range s.Slots {
		if name != slot.Name {
			return fmt.Errorf("dialogue: slot map key %q does not match schema name %q", name, slot.Name)
		}
		if err := slot.Validate(); err != nil {
			return err
		}
	}
	for id, goal := range s.Goals {
		if id != goal.ID {
			return fmt.Errorf("dialogue: goal map key %q does not match schema id %q", id, goal.ID)
		}
		for _, sn := range append(append([]string{}, goal.RequiredSlots...), goal.OptionalSlots...) {
			if _, ok := s.Slots[sn]; !ok {
				return fmt.Errorf("dialogue: goal %q references unknown slot %q", id, sn)
			}
		}
	}
	for intent, goalID := range s.IntentToGoal {
		if _, ok := s.Goals[goalID]; !ok {
			return fmt.Errorf("dialogue: intent %q maps to unknown goal %q", intent, goalID)
		}
	}
	return nil
}
