package tools

import (
	"context"
	"encoding/json"

	"github.com/vaak-ai/voicecore/pkg/ai/llm"
)

// OrchestratorAdapter satisfies orchestrator.ToolExecutor over a Registry,
// translating between the orchestrator's string-in/string-out tool-call
// shape and the registry's typed json.RawMessage dispatch.
type OrchestratorAdapter struct {
	Registry *Registry
}

// Execute dispatches name with argumentsJSON and returns the ToolResult
// envelope marshaled back to JSON, so a failed call still produces a
// well-formed message the LLM can read in its follow-up turn.
func (a OrchestratorAdapter) Execute(ctx context.Context, name string, argumentsJSON string) (string, error) {
	result := a.Registry.Dispatch(ctx, "", name, json.RawMessage(argumentsJSON))
	b, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Definitions renders every registered tool as an llm.ToolDefinition the
// generator can offer the model.
func (a OrchestratorAdapter) Definitions() []llm.ToolDefinition {
	defs := a.Registry.List()
	out := make([]llm.ToolDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, llm.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return out
}
