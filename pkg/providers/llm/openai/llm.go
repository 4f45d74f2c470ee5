// Package openai adapts the OpenAI chat completions API to the ai/llm.LLM
// contract, translating ai/llm's ChatRequest/ChatResponse shapes to and
// from go-openai's request/response types on every call.
package openai

import (
	"context"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/vaak-ai/voicecore/pkg/ai"
	"github.com/vaak-ai/voicecore/pkg/ai/llm"
)

// DefaultModel is used when New is called with an empty model string.
const DefaultModel = goopenai.GPT4oMini

// LLM is an ai/llm.LLM backed by OpenAI's chat completions API.
type LLM struct {
	client *goopenai.Client
	model  string
}

// New creates an OpenAI-backed LLM using apiKey. An empty model falls back
// to DefaultModel.
func New(apiKey, model string) *LLM {
	if model == "" {
		model = DefaultModel
	}
	return &LLM{client: goopenai.NewClient(apiKey), model: model}
}

func (l *LLM) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	resp, err := l.client.CreateChatCompletion(ctx, l.buildRequest(req, false))
	if err != nil {
		return llm.ChatResponse{}, ai.NewRecoverableError(err, "openai chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return llm.ChatResponse{}, ai.NewFatalError(fmt.Errorf("no choices returned"), "openai returned an empty completion")
	}

	choice := resp.Choices[0]
	return llm.ChatResponse{
		Message: llm.Message{
			Role:    llm.Role(choice.Message.Role),
			Content: choice.Message.Content,
		},
		ToolCalls:    fromOpenAIToolCalls(choice.Message.ToolCalls),
		TokensUsed:   resp.Usage.TotalTokens,
		FinishReason: string(choice.FinishReason),
	}, nil
}

func (l *LLM) ChatStream(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	stream, err := l.client.CreateChatCompletionStream(ctx, l.buildRequest(req, true))
	if err != nil {
		return nil, ai.NewRecoverableError(err, "openai chat stream failed")
	}

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		defer stream.Close()

		var pending *llm.ToolCall
		for {
			resp, err := stream.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			choice := resp.Choices[0]

			if len(choice.Delta.ToolCalls) > 0 {
				for _, tc := range choice.Delta.ToolCalls {
					if tc.Function.Name != "" {
						pending = &llm.ToolCall{ID: tc.ID, Name: tc.Function.Name}
					}
					if pending != nil {
						pending.Arguments += tc.Function.Arguments
					}
				}
			}

			chunk := llm.StreamChunk{TextDelta: choice.Delta.Content}
			if choice.FinishReason != "" {
				if pending != nil {
					chunk.ToolCall = pending
				}
				chunk.FinishReason = string(choice.FinishReason)
				chunk.Done = true
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (l *LLM) Capabilities() llm.Capabilities {
	return llm.Capabilities{
		SupportsTools:     true,
		SupportsStreaming: true,
		MaxTokens:         128000,
		SupportedModels:   []string{goopenai.GPT4o, goopenai.GPT4oMini, goopenai.GPT4Turbo},
	}
}

func (l *LLM) buildRequest(req llm.ChatRequest, stream bool) goopenai.ChatCompletionRequest {
	return goopenai.ChatCompletionRequest{
		Model:       l.model,
		Messages:    toOpenAIMessages(req.Messages),
		Tools:       toOpenAITools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stream:      stream,
	}
}

func toOpenAIMessages(messages []llm.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = goopenai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			Name:       m.ToolName,
			ToolCallID: m.ToolCallID,
		}
	}
	return out
}

func toOpenAITools(tools []llm.ToolDefinition) []goopenai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]goopenai.Tool, len(tools))
	for i, t := range tools {
		out[i] = goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return out
}

func fromOpenAIToolCalls(calls []goopenai.ToolCall) []llm.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]llm.ToolCall, len(calls))
	for i, c := range calls {
		out[i] = llm.ToolCall{ID: c.ID, Name: c.Function.Name, Arguments: c.Function.Arguments}
	}
	return out
}
