package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/vaak-ai/voicecore/pkg/dialogue"
	"github.com/vaak-ai/voicecore/pkg/fsm"
	"github.com/vaak-ai/voicecore/pkg/orchestrator"
	"github.com/vaak-ai/voicecore/pkg/persuasion"
)

// Loaded is everything a domain directory produces, already converted into
// the types the pipeline's packages consume.
type Loaded struct {
	Domain Domain

	Schema      dialogue.Schema
	StageGraph  fsm.Graph
	StageInfo   map[string]StageInfo
	Objections  persuasion.ObjectionLibrary
	Signals     []persuasion.SignalPattern
	Scoring     Scoring
	Competitors []Competitor

	SystemPromptTemplate orchestrator.PromptTemplate
	SMSTemplates         map[string]string

	Tools        []ToolSpec
	ToolDatasets map[string]map[string]any
}

// Loader reads a domain directory laid out per spec.md §6.
type Loader struct {
	Dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load parses every domain config file and cross-validates them,
// returning a startup-fatal error on the first problem found: a config
// that fails validation must never fall back to a hardcoded default.
func (l *Loader) Load() (*Loaded, error) {
	var domain Domain
	if err := l.readYAML("domain.yaml", &domain); err != nil {
		return nil, err
	}

	var slotsF slotsFile
	if err := l.readYAML("slots.yaml", &slotsF); err != nil {
		return nil, err
	}
	var goalsF goalsFile
	if err := l.readYAML("goals.yaml", &goalsF); err != nil {
		return nil, err
	}
	schema := buildSchema(slotsF, goalsF)
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var stagesF stagesFile
	if err := l.readYAML("stages.yaml", &stagesF); err != nil {
		return nil, err
	}
	graph, stageInfo := buildStageGraph(stagesF)
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var objectionsF objectionsFile
	if err := l.readYAML("objections.yaml", &objectionsF); err != nil {
		return nil, err
	}
	objections := buildObjectionLibrary(objectionsF)

	var segmentsF segmentsFile
	if err := l.readYAML("segments.yaml", &segmentsF); err != nil {
		return nil, err
	}
	signals, err := buildSignalPatterns(segmentsF)
	if err != nil {
		return nil, err
	}

	var scoringF scoringFile
	if err := l.readYAML("scoring.yaml", &scoringF); err != nil {
		return nil, err
	}
	scoring := buildScoring(scoringF)

	var competitorsF competitorsFile
	if err := l.readYAML("competitors.yaml", &competitorsF); err != nil {
		return nil, err
	}

	var systemPromptF systemPromptFile
	if err := l.readYAML(filepath.Join("prompts", "system.yaml"), &systemPromptF); err != nil {
		return nil, err
	}
	if systemPromptF.Template == "" {
		return nil, fmt.Errorf("config: prompts/system.yaml declares an empty template")
	}

	var smsF smsPromptFile
	if err := l.readYAML(filepath.Join("prompts", "sms.yaml"), &smsF); err != nil {
		return nil, err
	}

	var toolsF toolSchemasFile
	if err := l.readYAML(filepath.Join("tools", "schemas.yaml"), &toolsF); err != nil {
		return nil, err
	}
	toolSpecs, err := buildToolSpecs(toolsF)
	if err != nil {
		return nil, err
	}

	datasets, err := l.readToolDatasets()
	if err != nil {
		return nil, err
	}

	if err := crossValidate(schema, graph, toolSpecs, signals); err != nil {
		return nil, err
	}

	return &Loaded{
		Domain:               domain,
		Schema:               schema,
		StageGraph:           graph,
		StageInfo:            stageInfo,
		Objections:           objections,
		Signals:              signals,
		Scoring:              scoring,
		Competitors:          competitorsF.Competitors,
		SystemPromptTemplate: orchestrator.PromptTemplate(systemPromptF.Template),
		SMSTemplates:         smsF.Templates,
		Tools:                toolSpecs,
		ToolDatasets:         datasets,
	}, nil
}

func (l *Loader) readYAML(relPath string, out any) error {
	path := filepath.Join(l.Dir, relPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", relPath, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parsing %s: %w", relPath, err)
	}
	return nil
}

// readToolDatasets loads every tools/*.yaml file other than schemas.yaml as
// an opaque dataset (locations, documents, ...), keyed by file stem, for
// tool Execute closures registered outside this package to consume.
func (l *Loader) readToolDatasets() (map[string]map[string]any, error) {
	dir := filepath.Join(l.Dir, "tools")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading tools directory: %w", err)
	}

	datasets := make(map[string]map[string]any)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "schemas.yaml" {
			continue
		}
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("config: reading tools/%s: %w", name, err)
		}
		var dataset map[string]any
		if err := yaml.Unmarshal(data, &dataset); err != nil {
			return nil, fmt.Errorf("config: parsing tools/%s: %w", name, err)
		}
		stem := name[:len(name)-len(ext)]
		datasets[stem] = dataset
	}
	return datasets, nil
}

func buildSchema(slotsF slotsFile, goalsF goalsFile) dialogue.Schema {
	slots := make(map[string]dialogue.SlotSchema, len(slotsF.Slots))
	for _, s := range slotsF.Slots {
		patterns := make([]dialogue.Pattern, 0, len(s.Patterns))
		for _, p := range s.Patterns {
			patterns = append(patterns, dialogue.Pattern{Regex: p.Regex, Confidence: p.Confidence})
		}
		slots[s.Name] = dialogue.SlotSchema{
			Name:             s.Name,
			Type:             dialogue.SlotType(s.Type),
			AllowedValues:    s.AllowedValues,
			Min:              s.Min,
			Max:              s.Max,
			Patterns:         patterns,
			Priority:         s.Priority,
			RequiredForGoals: s.RequiredForGoals,
		}
	}

	goals := make(map[string]dialogue.Goal, len(goalsF.Goals))
	for _, g := range goalsF.Goals {
		goals[g.ID] = dialogue.Goal{
			ID:              g.ID,
			RequiredSlots:   g.RequiredSlots,
			OptionalSlots:   g.OptionalSlots,
			PromptTemplates: g.PromptTemplates,
		}
	}

	return dialogue.Schema{Slots: slots, Goals: goals, IntentToGoal: goalsF.IntentToGoal}
}

func buildStageGraph(f stagesFile) (fsm.Graph, map[string]StageInfo) {
	terminal := make(map[string]bool, len(f.Terminal))
	for _, s := range f.Terminal {
		terminal[s] = true
	}

	table := make(map[string]map[fsm.Event]fsm.Transition, len(f.Transitions))
	for stage, events := range f.Transitions {
		row := make(map[fsm.Event]fsm.Transition, len(events))
		for eventName, t := range events {
			actions := make([]fsm.Action, 0, len(t.Actions))
			for _, a := range t.Actions {
				actions = append(actions, fsm.Action{Kind: fsm.ActionKind(a.Kind), Text: a.Text, ToolName: a.ToolName})
			}
			row[fsm.Event(eventName)] = fsm.Transition{To: t.To, Actions: actions}
		}
		table[stage] = row
	}

	graph := fsm.Graph{Stages: f.Stages, Initial: f.Initial, Terminal: terminal, Table: table}

	info := make(map[string]StageInfo, len(f.Stages))
	for _, stage := range f.Stages {
		info[stage] = StageInfo{
			Guidance:            f.Guidance[stage],
			ContextBudgetTokens: f.ContextBudgetTokens[stage],
		}
	}
	return graph, info
}

func buildObjectionLibrary(f objectionsFile) persuasion.ObjectionLibrary {
	lib := make(persuasion.ObjectionLibrary, len(f.Objections))
	for kind, o := range f.Objections {
		lib[kind] = persuasion.ObjectionResponse{
			Acknowledge:  o.Acknowledge,
			Reframe:      o.Reframe,
			Evidence:     o.Evidence,
			CallToAction: o.CallToAction,
		}
	}
	return lib
}

func buildSignalPatterns(f segmentsFile) ([]persuasion.SignalPattern, error) {
	patterns := make([]persuasion.SignalPattern, 0, len(f.Signals))
	for _, s := range f.Signals {
		if s.Kind == "" || s.Regex == "" {
			return nil, fmt.Errorf("config: segments.yaml entry missing kind or regex")
		}
		patterns = append(patterns, persuasion.SignalPattern{
			Kind:     s.Kind,
			Language: s.Language,
			Regex:    s.Regex,
			Weight:   s.Weight,
		})
	}
	return patterns, nil
}

func buildScoring(f scoringFile) Scoring {
	thresholds := make([]Threshold, 0, len(f.Thresholds))
	for _, t := range f.Thresholds {
		thresholds = append(thresholds, Threshold{MinScore: t.MinScore, Label: t.Label})
	}
	return Scoring{
		SlotWeights:   f.SlotWeights,
		SignalWeights: f.SignalWeights,
		StageWeights:  f.StageWeights,
		Thresholds:    thresholds,
	}
}

func buildToolSpecs(f toolSchemasFile) ([]ToolSpec, error) {
	specs := make([]ToolSpec, 0, len(f.Tools))
	for _, t := range f.Tools {
		schema, err := toJSONSchema(t.Parameters)
		if err != nil {
			return nil, fmt.Errorf("config: tool %q parameters: %w", t.Name, err)
		}
		specs = append(specs, ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			SideEffects: t.SideEffects,
			Parameters:  schema,
		})
	}
	return specs, nil
}

// toJSONSchema round-trips a YAML-decoded map (string keys, since yaml.v3
// decodes mapping nodes into map[string]any) through JSON so it lands on
// jsonschema.Schema's json-tagged fields without hand-writing a second
// parallel schema representation.
func toJSONSchema(raw map[string]any) (*jsonschema.Schema, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// crossValidate checks references the individual files' own Validate
// methods cannot see: a stage transition's ActionExecuteTool naming a tool
// absent from tools/schemas.yaml, and a behavioral signal declared without
// a language.
func crossValidate(schema dialogue.Schema, graph fsm.Graph, tools []ToolSpec, signals []persuasion.SignalPattern) error {
	toolNames := make(map[string]bool, len(tools))
	for _, t := range tools {
		if t.Name == "" {
			return fmt.Errorf("config: tools/schemas.yaml declares a tool with no name")
		}
		toolNames[t.Name] = true
	}

	for stage, events := range graph.Table {
		for event, t := range events {
			for _, action := range t.Actions {
				if action.Kind == fsm.ActionExecuteTool && !toolNames[action.ToolName] {
					return fmt.Errorf("config: stage %q event %q executes unknown tool %q", stage, event, action.ToolName)
				}
			}
		}
	}

	for intent, goalID := range schema.IntentToGoal {
		if _, ok := schema.Goals[goalID]; !ok {
			return fmt.Errorf("config: intent %q maps to unknown goal %q", intent, goalID)
		}
	}
	for _, sig := range signals {
		if sig.Language == "" {
			return fmt.Errorf("config: segments.yaml signal %q declares no language", sig.Kind)
		}
	}
	return nil
}
