package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestOrchestratorAdapterExecuteReturnsEnvelope(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool())
	a := OrchestratorAdapter{Registry: r}

	out, err := a.Execute(context.Background(), "echo", `{"message":"hi"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var result ToolResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("expected valid JSON envelope, got %q: %v", out, err)
	}
	if !result.OK {
		t.Fatalf("expected ok result, got %+v", result)
	}
}

func TestOrchestratorAdapterDefinitionsIncludesRegisteredTools(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool())
	a := OrchestratorAdapter{Registry: r}

	defs := a.Definitions()
	if len(defs) != 1 || !strings.Contains(defs[0].Name, "echo") {
		t.Fatalf("expected echo tool definition, got %+v", defs)
	}
}
