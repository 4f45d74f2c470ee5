package openai

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/vaak-ai/voicecore/pkg/ai/llm"
)

func TestCapabilities(t *testing.T) {
	l := New("test-key", "")
	caps := l.Capabilities()
	if !caps.SupportsTools || !caps.SupportsStreaming {
		t.Fatal("expected tool and streaming support advertised")
	}
	if len(caps.SupportedModels) == 0 {
		t.Fatal("expected non-empty supported models")
	}
}

func TestNewDefaultsModel(t *testing.T) {
	l := New("test-key", "")
	if l.model != DefaultModel {
		t.Fatalf("expected default model %q, got %q", DefaultModel, l.model)
	}
}

func TestBuildRequestCarriesMessagesAndTools(t *testing.T) {
	l := New("test-key", "gpt-4o")
	req := llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "be concise"},
			{Role: llm.RoleUser, Content: "hello"},
		},
		Tools: []llm.ToolDefinition{{
			Name:        "lookup",
			Description: "looks things up",
			Parameters:  &jsonschema.Schema{Type: "object"},
		}},
		MaxTokens:   64,
		Temperature: 0.5,
	}

	out := l.buildRequest(req, false)
	if out.Model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", out.Model)
	}
	if len(out.Messages) != 2 || out.Messages[1].Content != "hello" {
		t.Fatalf("unexpected messages: %+v", out.Messages)
	}
	if len(out.Tools) != 1 || out.Tools[0].Function.Name != "lookup" {
		t.Fatalf("unexpected tools: %+v", out.Tools)
	}
	if out.MaxTokens != 64 || out.Temperature != 0.5 {
		t.Fatalf("unexpected sampling params: %+v", out)
	}
}

func TestToOpenAIToolsEmptyReturnsNil(t *testing.T) {
	if tools := toOpenAITools(nil); tools != nil {
		t.Fatalf("expected nil for no tools, got %+v", tools)
	}
}

func TestFromOpenAIToolCallsEmptyReturnsNil(t *testing.T) {
	if calls := fromOpenAIToolCalls(nil); calls != nil {
		t.Fatalf("expected nil for no tool calls, got %+v", calls)
	}
}
