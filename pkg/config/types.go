// Package config loads a domain directory into the typed structures every
// other package in this module consumes, per spec.md §6's "configuration is
// the only mechanism for domain onboarding" rule. No slot, stage, objection,
// or tool name is compiled into Go code; everything here is read from YAML.
package config

import "github.com/google/jsonschema-go/jsonschema"

// Domain is domain.yaml: brand identity, persona, and the numeric/lexical
// constants other config files and prompt templates reference by name.
type Domain struct {
	Brand      string             `yaml:"brand"`
	Persona    Persona            `yaml:"persona"`
	Currency   string             `yaml:"currency"`
	Vocabulary map[string][]string `yaml:"vocabulary"`
	Numeric    map[string]float64 `yaml:"numeric_constants"`
}

// Persona is the agent identity prompt assembly interpolates into the
// system prompt's {agent_name}/{persona_traits} placeholders.
type Persona struct {
	Name   string   `yaml:"name"`
	Traits []string `yaml:"traits"`
}

// slotsFile is slots.yaml's top-level shape.
type slotsFile struct {
	Slots []slotYAML `yaml:"slots"`
}

type patternYAML struct {
	Regex      string  `yaml:"regex"`
	Confidence float64 `yaml:"confidence"`
}

type slotYAML struct {
	Name             string        `yaml:"name"`
	Type             string        `yaml:"type"`
	AllowedValues    []string      `yaml:"allowed_values"`
	Min              *float64      `yaml:"min"`
	Max              *float64      `yaml:"max"`
	Patterns         []patternYAML `yaml:"patterns"`
	Priority         int           `yaml:"priority"`
	RequiredForGoals []string      `yaml:"required_for_goals"`
}

// goalsFile is goals.yaml's top-level shape.
type goalsFile struct {
	Goals        []goalYAML        `yaml:"goals"`
	IntentToGoal map[string]string `yaml:"intent_to_goal"`
}

type goalYAML struct {
	ID              string            `yaml:"id"`
	RequiredSlots   []string          `yaml:"required_slots"`
	OptionalSlots   []string          `yaml:"optional_slots"`
	PromptTemplates map[string]string `yaml:"prompt_templates"`
}

// stagesFile is stages.yaml's top-level shape.
type stagesFile struct {
	Stages              []string             `yaml:"stages"`
	Initial             string               `yaml:"initial"`
	Terminal            []string             `yaml:"terminal"`
	Guidance            map[string]string    `yaml:"guidance"`
	ContextBudgetTokens map[string]int       `yaml:"context_budget_tokens"`
	Transitions         map[string]map[string]transitionYAML `yaml:"transitions"`
}

type transitionYAML struct {
	To      string       `yaml:"to"`
	Actions []actionYAML `yaml:"actions"`
}

type actionYAML struct {
	Kind     string `yaml:"kind"`
	Text     string `yaml:"text"`
	ToolName string `yaml:"tool_name"`
}

// StageInfo pairs a stage's prompt guidance with the token budget context
// compression must respect while that stage is active.
type StageInfo struct {
	Guidance            string
	ContextBudgetTokens int
}

// objectionsFile is objections.yaml's top-level shape.
type objectionsFile struct {
	Objections map[string]objectionYAML `yaml:"objections"`
}

type objectionYAML struct {
	Acknowledge  string `yaml:"acknowledge"`
	Reframe      string `yaml:"reframe"`
	Evidence     string `yaml:"evidence"`
	CallToAction string `yaml:"call_to_action"`
}

// segmentsFile is segments.yaml's top-level shape.
type segmentsFile struct {
	Signals []signalYAML `yaml:"signals"`
}

type signalYAML struct {
	Kind     string  `yaml:"kind"`
	Language string  `yaml:"language"`
	Regex    string  `yaml:"regex"`
	Weight   float64 `yaml:"weight"`
}

// scoringFile is scoring.yaml's top-level shape.
type scoringFile struct {
	SlotWeights   map[string]float64 `yaml:"slot_weights"`
	SignalWeights map[string]float64 `yaml:"signal_weights"`
	StageWeights  map[string]float64 `yaml:"stage_weights"`
	Thresholds    []thresholdYAML    `yaml:"thresholds"`
}

type thresholdYAML struct {
	MinScore float64 `yaml:"min_score"`
	Label    string  `yaml:"label"`
}

// Threshold is one lead-quality tier boundary.
type Threshold struct {
	MinScore float64
	Label    string
}

// Scoring is the lead-scoring weight table scoring.yaml declares.
type Scoring struct {
	SlotWeights   map[string]float64
	SignalWeights map[string]float64
	StageWeights  map[string]float64
	Thresholds    []Threshold
}

// competitorsFile is competitors.yaml's top-level shape.
type competitorsFile struct {
	Competitors []Competitor `yaml:"competitors"`
}

// Competitor is one comparable-offer record the comparison tool serves.
type Competitor struct {
	Name         string  `yaml:"name"`
	RateAPR      float64 `yaml:"rate_apr"`
	TenureMonths int     `yaml:"tenure_months"`
	Fees         string  `yaml:"fees"`
	Notes        string  `yaml:"notes"`
}

// systemPromptFile is prompts/system.yaml's top-level shape.
type systemPromptFile struct {
	Template string `yaml:"template"`
}

// smsPromptFile is prompts/sms.yaml's top-level shape.
type smsPromptFile struct {
	Templates map[string]string `yaml:"templates"`
}

// toolSchemasFile is tools/schemas.yaml's top-level shape.
type toolSchemasFile struct {
	Tools []toolYAML `yaml:"tools"`
}

type toolYAML struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	SideEffects bool           `yaml:"side_effects"`
	Parameters  map[string]any `yaml:"parameters"`
}

// ToolSpec is one tool's configuration-declared contract: name,
// description, side-effect flag, and JSONSchema parameters. It carries no
// Execute function — config cannot encode Go code — callers pair a ToolSpec
// with a developer-registered Executor via BuildToolDefinitions.
type ToolSpec struct {
	Name        string
	Description string
	SideEffects bool
	Parameters  *jsonschema.Schema
}
