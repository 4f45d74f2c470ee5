package fsm

import (
	"testing"

	"github.com/vaak-ai/voicecore/pkg/dialogue"
)

func testGraph() Graph {
	return Graph{
		Stages:  []string{"greeting", "discovery", "farewell"},
		Initial: "greeting",
		Terminal: map[string]bool{"farewell": true},
		Table: map[string]map[Event]Transition{
			"greeting": {
				EventTurnEnd: {To: "discovery", Actions: []Action{{Kind: ActionSpeak, Text: "tell me more"}}},
			},
			"discovery": {
				EventEscalated: {To: "farewell", Actions: []Action{{Kind: ActionEscalate}, {Kind: ActionEnd}}},
			},
		},
	}
}

func TestMachineTransitionAdvancesStage(t *testing.T) {
	m, err := New(testGraph(), 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	actions, err := m.Transition(EventTurnEnd)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if m.Stage() != "discovery" {
		t.Fatalf("expected stage discovery, got %q", m.Stage())
	}
	if len(actions) != 1 || actions[0].Kind != ActionSpeak {
		t.Fatalf("unexpected actions: %+v", actions)
	}
}

func TestMachineInvalidTransitionLeavesStageUnchanged(t *testing.T) {
	m, _ := New(testGraph(), 4)
	_, err := m.Transition(EventEscalated)
	if err == nil {
		t.Fatal("expected ErrInvalidTransition from greeting on EventEscalated")
	}
	if m.Stage() != "greeting" {
		t.Fatalf("stage must not mutate on invalid transition, got %q", m.Stage())
	}
}

func TestMachineReachesTerminalStage(t *testing.T) {
	m, _ := New(testGraph(), 4)
	m.Transition(EventTurnEnd)
	if m.IsTerminal() {
		t.Fatal("discovery is not terminal")
	}
	m.Transition(EventEscalated)
	if !m.IsTerminal() {
		t.Fatal("expected farewell to be terminal")
	}
}

func TestGraphValidateRejectsUnknownInitialStage(t *testing.T) {
	g := testGraph()
	g.Initial = "nonexistent"
	if _, err := New(g, 4); err == nil {
		t.Fatal("expected error for unknown initial stage")
	}
}

func TestGraphValidateRejectsUnknownTransitionTarget(t *testing.T) {
	g := testGraph()
	tr := g.Table["greeting"][EventTurnEnd]
	tr.To = "nonexistent"
	g.Table["greeting"][EventTurnEnd] = tr
	if _, err := New(g, 4); err == nil {
		t.Fatal("expected error for transition to unknown stage")
	}
}

func TestCheckpointRestoreRollsBackState(t *testing.T) {
	m, _ := New(testGraph(), 4)
	st := dialogue.NewState()
	st.SetStage("greeting")
	st.Merge("amount", 100.0, 0.9, dialogue.SourceUtterance, 10)

	m.Checkpoint(st, 1, 1000)
	m.Transition(EventTurnEnd)
	st.Merge("amount", 999.0, 0.9, dialogue.SourceUtterance, 20)

	if err := m.Restore(st, 0); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if m.Stage() != "greeting" {
		t.Fatalf("expected restored stage greeting, got %q", m.Stage())
	}
	v, _ := st.Get("amount")
	if v.Value.(float64) != 100.0 {
		t.Fatalf("expected restored amount 100, got %v", v.Value)
	}
}

func TestCheckpointRingEvictsOldest(t *testing.T) {
	m, _ := New(testGraph(), 2)
	st := dialogue.NewState()

	m.Checkpoint(st, 1, 100)
	m.Checkpoint(st, 2, 200)
	m.Checkpoint(st, 3, 300)

	if _, err := m.cp.at(2); err == nil {
		t.Fatal("expected oldest checkpoint to have been evicted at ring size 2")
	}
	cp, err := m.cp.at(0)
	if err != nil {
		t.Fatalf("at(0): %v", err)
	}
	if cp.ConversationCursor != 3 {
		t.Fatalf("expected latest cursor 3, got %d", cp.ConversationCursor)
	}
}
