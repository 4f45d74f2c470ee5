// Package tools validates, dispatches, and envelopes tool calls the agent
// orchestrator's LLM (or an intent→tool config mapping) invokes mid-turn.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
)

// ToolResult is the deterministic envelope every tool call produces,
// whether it succeeded or failed, so the orchestrator never special-cases
// a tool's internal error shape.
type ToolResult struct {
	ID        string          `json:"id"`
	OK        bool            `json:"ok"`
	Value     json.RawMessage `json:"value,omitempty"`
	Error     string          `json:"error,omitempty"`
	LatencyMS int64           `json:"latency_ms"`
}

// Executor runs one tool call and returns its raw JSON result.
type Executor func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error)

// Definition declares one tool: its JSONSchema parameter contract, whether
// it has side effects worth auditing, and the function that runs it.
type Definition struct {
	Name             string
	Description      string
	Parameters       *jsonschema.Schema
	SideEffects      bool
	Execute          Executor
}

type registeredTool struct {
	def      Definition
	resolved *jsonschema.Resolved
}

// Registry is an O(1)-lookup tool table, carried over from the teacher's
// map+RWMutex ToolRegistry and generalized from a `minds.Definition`
// schema to JSONSchema plus our own ToolResult envelope.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
	audit AuditFunc
}

// AuditFunc is called after every dispatched tool call, successful or not,
// for deployments that need a record of every side-effecting action.
type AuditFunc func(name string, arguments json.RawMessage, result ToolResult)

// NewRegistry creates an empty Registry. audit may be nil to skip auditing.
func NewRegistry(audit AuditFunc) *Registry {
	return &Registry{tools: make(map[string]registeredTool), audit: audit}
}

// Register validates def.Parameters compiles and adds it to the registry.
// Re-registering an existing name is an error, matching the teacher's
// ToolRegistry.Register behavior.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tools: tool name cannot be empty")
	}
	if def.Execute == nil {
		return fmt.Errorf("tools: tool %q has no Execute function", def.Name)
	}

	var resolved *jsonschema.Resolved
	if def.Parameters != nil {
		r, err := def.Parameters.Resolve(nil)
		if err != nil {
			return fmt.Errorf("tools: tool %q has invalid parameter schema: %w", def.Name, err)
		}
		resolved = r
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tools: tool %q already registered", def.Name)
	}
	r.tools[def.Name] = registeredTool{def: def, resolved: resolved}
	return nil
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t.def, ok
}

// List returns every registered tool definition.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.def)
	}
	return out
}

// Remove deletes a tool by name, reporting whether it existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		delete(r.tools, name)
		return true
	}
	return false
}

// Clear removes every registered tool.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[string]registeredTool)
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Names returns every registered tool's name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Dispatch validates arguments against the tool's declared schema and, on
// success, calls Execute. A validation failure never reaches Execute — it
// returns a ToolResult carrying the typed error instead.
func (r *Registry) Dispatch(ctx context.Context, id, name string, arguments json.RawMessage) ToolResult {
	start := time.Now()

	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		result := ToolResult{ID: id, OK: false, Error: fmt.Sprintf("tools: unknown tool %q", name)}
		r.recordAudit(name, arguments, result)
		return result
	}

	if t.resolved != nil {
		var instance any
		if len(arguments) > 0 {
			if err := json.Unmarshal(arguments, &instance); err != nil {
				result := ToolResult{ID: id, OK: false, Error: fmt.Sprintf("tools: invalid JSON arguments: %v", err)}
				r.recordAudit(name, arguments, result)
				return result
			}
		}
		if err := t.resolved.Validate(instance); err != nil {
			result := ToolResult{ID: id, OK: false, Error: fmt.Sprintf("tools: argument validation failed: %v", err)}
			r.recordAudit(name, arguments, result)
			return result
		}
	}

	value, err := t.def.Execute(ctx, arguments)
	result := ToolResult{ID: id, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		result.OK = false
		result.Error = err.Error()
	} else {
		result.OK = true
		result.Value = value
	}
	r.recordAudit(name, arguments, result)
	return result
}

func (r *Registry) recordAudit(name string, arguments json.RawMessage, result ToolResult) {
	if r.audit != nil {
		r.audit(name, arguments, result)
	}
}
