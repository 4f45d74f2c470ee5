package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaak-ai/voicecore/pkg/ai/llm"
)

// SummarizeStrategy selects how older turns are compressed once the
// verbatim history exceeds a token budget.
type SummarizeStrategy int

const (
	// SummarizeExtractive keeps the first sentence of each compressed turn,
	// a cheap stdlib-only strategy with no backend round trip.
	SummarizeExtractive SummarizeStrategy = iota
	// SummarizeLLM delegates compression to the same llm.LLM used for
	// generation, producing a denser summary at the cost of a call.
	SummarizeLLM
)

// Summarizer compresses the turns outside the verbatim window into a
// running summary string.
type Summarizer struct {
	Strategy SummarizeStrategy
	LLM      llm.LLM // only used when Strategy == SummarizeLLM
}

// NewSummarizer creates a Summarizer using strategy. backend may be nil
// when strategy == SummarizeExtractive.
func NewSummarizer(strategy SummarizeStrategy, backend llm.LLM) *Summarizer {
	return &Summarizer{Strategy: strategy, LLM: backend}
}

// Summarize produces a running summary over turns, folding in any prior
// summary text so repeated compressions stay coherent.
func (s *Summarizer) Summarize(ctx context.Context, priorSummary string, turns []ConversationTurn) (string, error) {
	if len(turns) == 0 {
		return priorSummary, nil
	}
	switch s.Strategy {
	case SummarizeLLM:
		return s.summarizeLLM(ctx, priorSummary, turns)
	default:
		return s.summarizeExtractive(priorSummary, turns), nil
	}
}

// summarizeExtractive keeps the leading sentence of every turn, which
// preserves topic continuity without a backend call.
func (s *Summarizer) summarizeExtractive(priorSummary string, turns []ConversationTurn) string {
	var b strings.Builder
	if priorSummary != "" {
		b.WriteString(priorSummary)
		b.WriteString(" ")
	}
	for _, t := range turns {
		sentence := firstSentence(t.Text)
		if sentence == "" {
			continue
		}
		fmt.Fprintf(&b, "%s said: %s ", t.Role, sentence)
	}
	return strings.TrimSpace(b.String())
}

func (s *Summarizer) summarizeLLM(ctx context.Context, priorSummary string, turns []ConversationTurn) (string, error) {
	if s.LLM == nil {
		return s.summarizeExtractive(priorSummary, turns), nil
	}

	var transcript strings.Builder
	if priorSummary != "" {
		transcript.WriteString("Prior summary: ")
		transcript.WriteString(priorSummary)
		transcript.WriteString("\n")
	}
	for _, t := range turns {
		fmt.Fprintf(&transcript, "%s: %s\n", t.Role, t.Text)
	}

	req := llm.ChatRequest{Messages: []llm.Message{
		{Role: llm.RoleSystem, Content: "Summarize this conversation history in 2-3 sentences, preserving any facts the assistant will need later."},
		{Role: llm.RoleUser, Content: transcript.String()},
	}}
	resp, err := s.LLM.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("orchestrator: llm summarize: %w", err)
	}
	if resp.Message.Content == "" {
		return s.summarizeExtractive(priorSummary, turns), nil
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		switch r {
		case '.', '?', '!':
			return strings.TrimSpace(text[:i+1])
		}
	}
	return text
}
