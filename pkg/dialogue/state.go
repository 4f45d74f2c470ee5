package dialogue

import "sync"

// State is the live per-session DialogueState: a slot map plus the stage
// and goal context the FSM and NBA recommender read. It has no fixed
// per-domain struct, per spec.md §4.5 — the slot set is whatever the
// schema declares.
type State struct {
	mu         sync.RWMutex
	slots      map[string]SlotValue
	stage      string
	intent     string
	activeGoal string
}

// NewState creates an empty DialogueState.
func NewState() *State {
	return &State{slots: make(map[string]SlotValue)}
}

// Merge applies one extracted-and-validated update using the source
// priority rule: tool > utterance > inference > default. An update is
// dropped, not applied, only if a strictly higher-priority value already
// occupies the slot; an equal-priority update replaces the value —
// spec.md §4.5's "lower-priority updates are dropped".
func (s *State) Merge(slotName string, value any, confidence float64, source Source, atMS int64) (applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.slots[slotName]
	if ok && existing.Source > source {
		return false
	}
	s.slots[slotName] = SlotValue{
		Value:       value,
		Confidence:  confidence,
		Source:      source,
		UpdatedAtMS: atMS,
	}
	return true
}

// Get returns the current value for a slot and whether it is set.
func (s *State) Get(slotName string) (SlotValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[slotName]
	return v, ok
}

// Snapshot returns a copy of the entire slot map plus stage/intent/goal,
// safe for a caller to read without holding any lock.
func (s *State) Snapshot() (slots map[string]SlotValue, stage, intent, activeGoal string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots = make(map[string]SlotValue, len(s.slots))
	for k, v := range s.slots {
		slots[k] = v
	}
	return slots, s.stage, s.intent, s.activeGoal
}

// SetStage updates the current conversation stage.
func (s *State) SetStage(stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
}

// SetIntent updates the detected intent and, if intentToGoal maps it, the
// active goal.
func (s *State) SetIntent(intent string, intentToGoal map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent = intent
	if goal, ok := intentToGoal[intent]; ok {
		s.activeGoal = goal
	}
}

// Checkpoint is an immutable snapshot of dialogue state at one point in
// the conversation, the payload pkg/fsm's checkpoint ring buffer stores.
// ConversationCursor is an opaque position into the turn/utterance history
// (e.g. a turn sequence number) the caller supplies; dialogue itself keeps
// no history log, per spec.md's history_refs being owned one layer up.
type Checkpoint struct {
	Slots              map[string]SlotValue
	Stage              string
	Intent             string
	ActiveGoal         string
	ConversationCursor int64
	AtMS               int64
}

// Checkpoint captures the current state at conversationCursor.
func (s *State) Checkpoint(conversationCursor, atMS int64) Checkpoint {
	slots, stage, intent, goal := s.Snapshot()
	return Checkpoint{
		Slots:              slots,
		Stage:              stage,
		Intent:             intent,
		ActiveGoal:         goal,
		ConversationCursor: conversationCursor,
		AtMS:               atMS,
	}
}

// Restore overwrites the current state with a prior checkpoint atomically.
func (s *State) Restore(cp Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := make(map[string]SlotValue, len(cp.Slots))
	for k, v := range cp.Slots {
		slots[k] = v
	}
	s.slots = slots
	s.stage = cp.Stage
	s.intent = cp.Intent
	s.activeGoal = cp.ActiveGoal
}
