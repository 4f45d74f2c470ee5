// Package fake provides a deterministic LLM double for tests that need to
// drive the orchestrator and speculative executor without a network call.
package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vaak-ai/voicecore/pkg/ai/llm"
)

// LLM cycles through a fixed set of responses, optionally emitting a tool
// call when any user message in the request mentions "tool" and a tool is
// offered.
type LLM struct {
	mu        sync.Mutex
	Responses []string
	callCount int
}

// New creates a fake LLM backend with the given response set. An empty set
// falls back to generic placeholder responses.
func New(responses ...string) *LLM {
	if len(responses) == 0 {
		responses = []string{
			"this is a fake response from the fake LLM backend",
			"I'm a fake assistant, how can I help you?",
			"this is another fake response for testing purposes",
		}
	}
	return &LLM{Responses: responses}
}

func (f *LLM) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	f.mu.Lock()
	response := f.Responses[f.callCount%len(f.Responses)]
	f.callCount++
	f.mu.Unlock()

	if len(req.Tools) > 0 {
		for _, msg := range req.Messages {
			if msg.Role == llm.RoleUser && strings.Contains(strings.ToLower(msg.Content), "tool") {
				return llm.ChatResponse{
					Message: llm.Message{Role: llm.RoleAssistant},
					ToolCalls: []llm.ToolCall{{
						ID:        "fake-call-1",
						Name:      req.Tools[0].Name,
						Arguments: `{"param":"fake_value"}`,
					}},
					FinishReason: "tool_calls",
				}, nil
			}
		}
	}

	if len(req.Messages) > 0 {
		last := req.Messages[len(req.Messages)-1]
		if last.Role == llm.RoleUser {
			response = fmt.Sprintf("%s (you said: %s)", response, last.Content)
		}
	}

	return llm.ChatResponse{
		Message:      llm.Message{Role: llm.RoleAssistant, Content: response},
		TokensUsed:   len(strings.Fields(response)) + 10,
		FinishReason: "stop",
	}, nil
}

func (f *LLM) ChatStream(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	resp, err := f.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)

		if len(resp.ToolCalls) > 0 {
			select {
			case out <- llm.StreamChunk{ToolCall: &resp.ToolCalls[0]}:
			case <-ctx.Done():
				return
			}
			select {
			case out <- llm.StreamChunk{Done: true, FinishReason: resp.FinishReason}:
			case <-ctx.Done():
			}
			return
		}

		words := strings.Fields(resp.Message.Content)
		for i, w := range words {
			delta := w
			if i < len(words)-1 {
				delta += " "
			}
			select {
			case out <- llm.StreamChunk{TextDelta: delta}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case out <- llm.StreamChunk{Done: true, FinishReason: resp.FinishReason}:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

func (f *LLM) Capabilities() llm.Capabilities {
	return llm.Capabilities{
		SupportsTools:     true,
		SupportsStreaming: true,
		MaxTokens:         4096,
		SupportedModels:   []string{"fake-model-1", "fake-model-2"},
	}
}
