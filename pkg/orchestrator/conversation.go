// Package orchestrator runs one agent turn end to end: transcript in,
// dialogue state and stage updates, retrieval, prompt assembly,
// speculative LLM execution, tool dispatch, and spoken response out.
package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaak-ai/voicecore/pkg/dialogue"
	"github.com/vaak-ai/voicecore/pkg/fsm"
)

// TurnRole identifies who produced a ConversationTurn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
	RoleTool      TurnRole = "tool"
)

// ConversationTurn is one utterance in a session's history.
type ConversationTurn struct {
	Role      TurnRole
	Text      string
	AtMS      int64
	ToolName  string // set when Role == RoleTool
}

// Conversation is the ordered turn history plus a running summary slot
// used once the verbatim history exceeds a token budget.
type Conversation struct {
	mu      sync.RWMutex
	turns   []ConversationTurn
	Summary string
}

// NewConversation creates an empty Conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a turn to the end of the history.
func (c *Conversation) Append(turn ConversationTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turn)
}

// Turns returns a copy of the current history.
func (c *Conversation) Turns() []ConversationTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// CompressOlder replaces every turn before the last keepLast turns with the
// given summary text, used by the context-budget compressor.
func (c *Conversation) CompressOlder(keepLast int, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if keepLast >= len(c.turns) {
		return
	}
	c.Summary = summary
	c.turns = append([]ConversationTurn{}, c.turns[len(c.turns)-keepLast:]...)
}

// Session owns one caller's full conversational state: the turn history,
// dialogue slots, and FSM stage. The Pipeline it runs within only holds
// shared references to backends and configuration.
type Session struct {
	ID             string
	StartedAt      time.Time
	LastActivityMS int64
	Language       string
	PersonaRef     string

	Conversation *Conversation
	Dialogue     *dialogue.State
	Machine      *fsm.Machine
}

// NewSession creates a Session with a fresh ID, conversation, and dialogue
// state, bound to the given machine (already constructed from a loaded
// stage graph).
func NewSession(language, personaRef string, machine *fsm.Machine) *Session {
	return &Session{
		ID:           uuid.NewString(),
		StartedAt:    time.Now(),
		Language:     language,
		PersonaRef:   personaRef,
		Conversation: NewConversation(),
		Dialogue:     dialogue.NewState(),
		Machine:      machine,
	}
}

// Touch updates the session's last-activity timestamp, used by an idle-TTL
// eviction policy.
func (s *Session) Touch(atMS int64) {
	s.LastActivityMS = atMS
}
