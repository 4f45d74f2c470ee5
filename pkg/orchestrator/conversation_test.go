package orchestrator

import "testing"

func TestConversationAppendAndTurns(t *testing.T) {
	c := NewConversation()
	c.Append(ConversationTurn{Role: RoleUser, Text: "hi"})
	c.Append(ConversationTurn{Role: RoleAssistant, Text: "hello"})

	turns := c.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
}

func TestConversationCompressOlderKeepsTail(t *testing.T) {
	c := NewConversation()
	for i := 0; i < 5; i++ {
		c.Append(ConversationTurn{Role: RoleUser, Text: "turn"})
	}
	c.CompressOlder(2, "summary of early turns")

	turns := c.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 verbatim turns retained, got %d", len(turns))
	}
	if c.Summary != "summary of early turns" {
		t.Fatalf("expected summary set, got %q", c.Summary)
	}
}

func TestConversationCompressOlderNoOpWhenUnderBudget(t *testing.T) {
	c := NewConversation()
	c.Append(ConversationTurn{Role: RoleUser, Text: "one"})
	c.CompressOlder(5, "should not apply")

	if c.Summary != "" {
		t.Fatal("expected no compression when turn count is under the keep budget")
	}
}

func TestNewSessionGeneratesUniqueID(t *testing.T) {
	s1 := testSession(t)
	s2 := testSession(t)
	if s1.ID == s2.ID {
		t.Fatal("expected unique session IDs")
	}
}
