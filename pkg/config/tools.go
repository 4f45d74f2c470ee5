package config

import (
	"fmt"

	"github.com/vaak-ai/voicecore/pkg/tools"
)

// BuildToolDefinitions pairs each configured ToolSpec with the Go executor
// registered under the same name, producing the Definitions a
// tools.Registry needs. It is startup-fatal for a configured tool to have
// no matching executor, and for an executor to be registered under a name
// config never declared — both indicate the deployment's tool wiring and
// its domain config have drifted apart.
func BuildToolDefinitions(specs []ToolSpec, executors map[string]tools.Executor) ([]tools.Definition, error) {
	defs := make([]tools.Definition, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		seen[spec.Name] = true
		exec, ok := executors[spec.Name]
		if !ok {
			return nil, fmt.Errorf("config: tool %q has no registered executor", spec.Name)
		}
		defs = append(defs, tools.Definition{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  spec.Parameters,
			SideEffects: spec.SideEffects,
			Execute:     exec,
		})
	}
	for name := range executors {
		if !seen[name] {
			return nil, fmt.Errorf("config: executor registered for %q but tools/schemas.yaml declares no such tool", name)
		}
	}
	return defs, nil
}
