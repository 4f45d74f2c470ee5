// Package llm defines the contract the core requires from a language-model
// backend: chat completion, streaming, and tool/function calling. Concrete
// backends live under pkg/providers/llm.
package llm

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/vaak-ai/voicecore/pkg/ai"
)

// Error sentinels re-exported for call sites that only import this package.
var (
	ErrRecoverable = ai.ErrRecoverable
	ErrFatal       = ai.ErrFatal
)

// Role identifies the speaker of a Message, matching the ConversationTurn
// role set.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of chat history handed to the model.
type Message struct {
	Role       Role
	Content    string
	ToolCallID string // set on RoleTool messages, echoes the ToolCall.ID
	ToolName   string
}

// ToolCall is a single function invocation the model asked for.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// ToolDefinition describes one callable tool in the shape the model expects.
// Parameters mirrors pkg/tools.Definition.Parameters so a registry's
// schemas pass straight through without a re-encoding step.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// ChatRequest is a single completion request.
type ChatRequest struct {
	Messages    []Message
	Tools       []ToolDefinition
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// ChatResponse is a non-streaming completion result.
type ChatResponse struct {
	Message      Message
	ToolCalls    []ToolCall
	TokensUsed   int
	FinishReason string
}

// StreamChunk is one increment of a streaming completion: either a text
// delta, a completed tool call, or a terminal chunk carrying FinishReason.
type StreamChunk struct {
	TextDelta    string
	ToolCall     *ToolCall
	FinishReason string
	Done         bool
}

// Capabilities describes what a provider supports so callers can degrade
// gracefully (e.g. fall back to non-streaming).
type Capabilities struct {
	SupportsTools     bool
	SupportsStreaming bool
	MaxTokens         int
	SupportedModels   []string
}

// LLM is the contract the orchestrator (C8) and speculative executor (C11)
// require from a language-model backend.
type LLM interface {
	// Chat performs a single, non-streaming completion.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)

	// ChatStream performs a streaming completion. The returned channel is
	// closed when the stream ends (normally, on error, or on ctx
	// cancellation); a cancelled ctx must stop the underlying network call.
	ChatStream(ctx context.Context, req ChatRequest) (<-chan StreamChunk, error)

	Capabilities() Capabilities
}
