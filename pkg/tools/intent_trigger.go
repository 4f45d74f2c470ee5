package tools

import (
	"context"
	"encoding/json"
)

// IntentTriggerMap is a configured intent→tool mapping: when a detected
// intent has an entry here, the mapped tool runs even if the LLM's own
// output produced no tool_call, satisfying spec.md §4.9's "both supported
// and simultaneously enabled" triggering requirement.
type IntentTriggerMap map[string]string

// Trigger looks up intent in the map and, if present, dispatches its
// mapped tool with arguments. It returns ok=false when no mapping exists
// for intent, letting the caller distinguish "no tool to run" from "tool
// ran and failed".
func (m IntentTriggerMap) Trigger(ctx context.Context, registry *Registry, intent string, arguments json.RawMessage) (result ToolResult, ok bool) {
	name, mapped := m[intent]
	if !mapped {
		return ToolResult{}, false
	}
	return registry.Dispatch(ctx, "", name, arguments), true
}
