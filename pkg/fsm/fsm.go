// Package fsm advances a conversation through a configuration-defined
// stage graph, mirroring the teacher's SessionState enum+mutex pattern but
// generalized: stages, events, and the transitions between them all come
// from config, not from a fixed Go enum.
package fsm

import (
	"fmt"
	"sync"
)

// Event is one occurrence that may trigger a stage transition.
type Event string

const (
	EventTurnEnd         Event = "turn_end"
	EventIntentDetected  Event = "intent_detected"
	EventSlotUpdated     Event = "slot_updated"
	EventObjectionDetected Event = "objection_detected"
	EventToolExecuted    Event = "tool_executed"
	EventTimeout         Event = "timeout"
	EventEscalated       Event = "escalated"
)

// ActionKind tags one transition side effect.
type ActionKind string

const (
	ActionStartListening ActionKind = "start_listening"
	ActionStopListening  ActionKind = "stop_listening"
	ActionSpeak          ActionKind = "speak"
	ActionExecuteTool    ActionKind = "execute_tool"
	ActionCheckpoint     ActionKind = "checkpoint"
	ActionEnd            ActionKind = "end"
	ActionEscalate       ActionKind = "escalate"
)

// Action is one side effect a transition produces; Text and ToolName are
// populated only for ActionSpeak and ActionExecuteTool respectively.
type Action struct {
	Kind     ActionKind
	Text     string
	ToolName string
}

// Transition declares what a (stage, event) pair does: the destination
// stage and the actions to emit.
type Transition struct {
	To      string
	Actions []Action
}

// Graph is the configuration-loaded transition table: Graph[stage][event]
// gives the Transition, if the stage permits that event.
type Graph struct {
	Stages  []string
	Initial string
	Terminal map[string]bool
	Table   map[string]map[Event]Transition
}

// Validate checks the graph references only its own declared stages.
func (g Graph) Validate() error {
	known := make(map[string]bool, len(g.Stages))
	for _, s := range g.Stages {
		known[s] = true
	}
	if !known[g.Initial] {
		return fmt.Errorf("fsm: initial stage %q not in stage list", g.Initial)
	}
	for stage, events := range g.Table {
		if !known[stage] {
			return fmt.Errorf("fsm: transition table references unknown stage %q", stage)
		}
		for ev, t := range events {
			if !known[t.To] {
				return fmt.Errorf("fsm: stage %q event %q transitions to unknown stage %q", stage, ev, t.To)
			}
		}
	}
	return nil
}

// ErrInvalidTransition is returned when an event is not permitted from the
// current stage. State is left unmutated.
type ErrInvalidTransition struct {
	Stage string
	Event Event
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("fsm: event %q not permitted from stage %q", e.Event, e.Stage)
}

// Machine drives one conversation's stage through a Graph, guarded by a
// mutex the way the teacher's AgentSession guards SessionState.
type Machine struct {
	mu    sync.RWMutex
	graph Graph
	stage string
	cp    *checkpointRing
}

// New creates a Machine at the graph's initial stage with a checkpoint
// ring buffer of the given size (spec.md §4.6 default is 16).
func New(graph Graph, checkpointSize int) (*Machine, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return &Machine{
		graph: graph,
		stage: graph.Initial,
		cp:    newCheckpointRing(checkpointSize),
	}, nil
}

// Stage returns the current stage.
func (m *Machine) Stage() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stage
}

// IsTerminal reports whether the current stage is terminal.
func (m *Machine) IsTerminal() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.graph.Terminal[m.stage]
}

// Transition applies event from the current stage, returning the actions
// to execute. It returns ErrInvalidTransition without mutating state if
// the configured graph does not permit event from the current stage.
func (m *Machine) Transition(event Event) ([]Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events, ok := m.graph.Table[m.stage]
	if !ok {
		return nil, ErrInvalidTransition{Stage: m.stage, Event: event}
	}
	t, ok := events[event]
	if !ok {
		return nil, ErrInvalidTransition{Stage: m.stage, Event: event}
	}

	m.stage = t.To
	return t.Actions, nil
}
