package dialogue

import "sort"

// NBAKind is one of the configured action kinds the recommender may emit.
type NBAKind string

const (
	AskSlot        NBAKind = "ask_slot"
	ConfirmValue   NBAKind = "confirm_value"
	SuggestTool    NBAKind = "suggest_tool"
	AdvanceStage   NBAKind = "advance_stage"
	HandleObjection NBAKind = "handle_objection"
	Escalate       NBAKind = "escalate"
)

// NBA is one ranked next-best-action recommendation.
type NBA struct {
	Kind   NBAKind
	Slot   string // populated for AskSlot/ConfirmValue
	Prompt string // rendered prompt_template, for AskSlot
	Rank   int
}

// Recommender derives NBAs from a Schema and the current State; no action
// kind or slot name is hardcoded — everything is read from the schema's
// goal graph, per spec.md §4.5.
type Recommender struct {
	schema Schema
}

// NewRecommender creates a Recommender over schema.
func NewRecommender(schema Schema) *Recommender {
	return &Recommender{schema: schema}
}

// Recommend identifies the active goal, enumerates its unfilled required
// slots by schema priority, and returns ranked AskSlot NBAs. If the goal
// has no unfilled required slots, it returns a single AdvanceStage NBA.
func (r *Recommender) Recommend(state *State) []NBA {
	slots, _, _, activeGoal := state.Snapshot()

	goal, ok := r.schema.Goals[activeGoal]
	if !ok {
		return nil
	}

	type missing struct {
		name     string
		priority int
	}
	var unfilled []missing
	for _, slotName := range goal.RequiredSlots {
		if _, present := slots[slotName]; present {
			continue
		}
		slotSchema, ok := r.schema.Slots[slotName]
		priority := 0
		if ok {
			priority = slotSchema.Priority
		}
		unfilled = append(unfilled, missing{name: slotName, priority: priority})
	}

	if len(unfilled) == 0 {
		return []NBA{{Kind: AdvanceStage, Rank: 0}}
	}

	sort.SliceStable(unfilled, func(i, j int) bool {
		return unfilled[i].priority > unfilled[j].priority
	})

	out := make([]NBA, 0, len(unfilled))
	for i, m := range unfilled {
		out = append(out, NBA{
			Kind:   AskSlot,
			Slot:   m.name,
			Prompt: goal.PromptTemplates[m.name],
			Rank:   i,
		})
	}
	return out
}
