package fake

import (
	"context"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/vaak-ai/voicecore/pkg/ai/llm"
)

func TestFakeLLMCapabilities(t *testing.T) {
	provider := New()
	caps := provider.Capabilities()

	if !caps.SupportsTools {
		t.Error("expected SupportsTools to be true")
	}
	if caps.MaxTokens <= 0 {
		t.Error("expected MaxTokens to be positive")
	}
	if len(caps.SupportedModels) == 0 {
		t.Error("expected SupportedModels to be non-empty")
	}
}

func TestFakeLLMChat(t *testing.T) {
	provider := New("response one", "response two")
	ctx := context.Background()

	req := llm.ChatRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: "hello"}},
		MaxTokens:   100,
		Temperature: 0.7,
	}

	resp, err := provider.Chat(ctx, req)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Message.Role != llm.RoleAssistant {
		t.Errorf("expected assistant role, got %v", resp.Message.Role)
	}
	if !strings.Contains(resp.Message.Content, "response one") {
		t.Errorf("expected predefined response, got %q", resp.Message.Content)
	}
	if resp.TokensUsed <= 0 {
		t.Error("expected TokensUsed to be positive")
	}
	if resp.FinishReason != "stop" {
		t.Errorf("expected finish reason stop, got %q", resp.FinishReason)
	}
}

func TestFakeLLMToolCall(t *testing.T) {
	provider := New()
	ctx := context.Background()

	req := llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "please call a tool"}},
		Tools: []llm.ToolDefinition{{
			Name:        "test_tool",
			Description: "a test tool",
			Parameters:  &jsonschema.Schema{Type: "object"},
		}},
	}

	resp, err := provider.Chat(ctx, req)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected exactly one tool call, got %d", len(resp.ToolCalls))
	}
	if resp.ToolCalls[0].Name != "test_tool" {
		t.Errorf("expected tool name test_tool, got %q", resp.ToolCalls[0].Name)
	}
	if resp.FinishReason != "tool_calls" {
		t.Errorf("expected finish reason tool_calls, got %q", resp.FinishReason)
	}
}

func TestFakeLLMResponseCycling(t *testing.T) {
	responses := []string{"A", "B", "C"}
	provider := New(responses...)
	ctx := context.Background()

	req := llm.ChatRequest{Messages: []llm.Message{{Role: llm.RoleUser, Content: "test"}}}

	for i := 0; i < len(responses)*2; i++ {
		resp, err := provider.Chat(ctx, req)
		if err != nil {
			t.Fatalf("Chat() iteration %d error = %v", i, err)
		}
		want := responses[i%len(responses)]
		if !strings.Contains(resp.Message.Content, want) {
			t.Errorf("iteration %d: expected response containing %q, got %q", i, want, resp.Message.Content)
		}
	}
}

func TestFakeLLMChatStreamEmitsTextThenDone(t *testing.T) {
	provider := New("hello there friend")
	ctx := context.Background()

	req := llm.ChatRequest{Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}}

	chunks, err := provider.ChatStream(ctx, req)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	var text strings.Builder
	sawDone := false
	for chunk := range chunks {
		text.WriteString(chunk.TextDelta)
		if chunk.Done {
			sawDone = true
		}
	}
	if !sawDone {
		t.Error("expected a terminal Done chunk")
	}
	if !strings.Contains(text.String(), "hello") {
		t.Errorf("expected streamed text to contain original content, got %q", text.String())
	}
}

func TestFakeLLMChatStreamCancellation(t *testing.T) {
	provider := New("a fairly long response with many words in it to stream")
	ctx, cancel := context.WithCancel(context.Background())

	req := llm.ChatRequest{Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}}

	chunks, err := provider.ChatStream(ctx, req)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	count := 0
	for range chunks {
		count++
		if count == 2 {
			cancel()
		}
	}
	if count > 6 {
		t.Errorf("expected early termination on cancellation, got %d chunks", count)
	}
}
