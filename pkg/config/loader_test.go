package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	mustWrite := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}

	mustWrite("domain.yaml", `
brand: Acme Finance
persona:
  name: Asha
  traits: [warm, concise]
currency: INR
vocabulary:
  loan: [loan, karza, rin]
numeric_constants:
  max_loan_amount: 2000000
`)
	mustWrite("slots.yaml", `
slots:
  - name: loan_amount
    type: number
    priority: 10
    patterns:
      - regex: "([0-9]+) *(lakh|rupees)"
        confidence: 0.9
  - name: city
    type: string
    priority: 5
    patterns:
      - regex: "i am in ([a-zA-Z]+)"
        confidence: 0.7
`)
	mustWrite("goals.yaml", `
goals:
  - id: apply_loan
    required_slots: [loan_amount, city]
    optional_slots: []
    prompt_templates:
      loan_amount: "How much would you like to borrow?"
      city: "Which city are you in?"
intent_to_goal:
  loan_request: apply_loan
`)
	mustWrite("stages.yaml", `
stages: [greeting, qualification, closing]
initial: greeting
terminal: [closing]
guidance:
  greeting: "Welcome the caller warmly."
  qualification: "Collect loan amount and city."
  closing: "Confirm next steps."
context_budget_tokens:
  greeting: 500
  qualification: 1200
  closing: 400
transitions:
  greeting:
    turn_end:
      to: qualification
  qualification:
    slot_updated:
      to: qualification
    intent_detected:
      to: closing
      actions:
        - kind: execute_tool
          tool_name: check_eligibility
`)
	mustWrite("objections.yaml", `
objections:
  price_objection:
    acknowledge: "I understand cost is a concern."
    reframe: "Think of it as a monthly investment."
    evidence: "Most customers save over the loan term."
    call_to_action: "Would a longer tenure help?"
`)
	mustWrite("segments.yaml", `
signals:
  - kind: price_objection
    language: en
    regex: "(?i)too expensive|can't afford"
    weight: 1.0
`)
	mustWrite("scoring.yaml", `
slot_weights:
  loan_amount: 20
  city: 5
signal_weights:
  price_objection: -10
stage_weights:
  closing: 30
thresholds:
  - min_score: 0
    label: cold
  - min_score: 40
    label: hot
`)
	mustWrite("competitors.yaml", `
competitors:
  - name: QuickLoan
    rate_apr: 14.5
    tenure_months: 36
    fees: "1% processing fee"
`)
	mustWrite("prompts/system.yaml", `
template: "You are {agent_name} from {brand}. {stage_guidance}"
`)
	mustWrite("prompts/sms.yaml", `
templates:
  reminder: "Hi, just checking in about your loan application."
`)
	mustWrite("tools/schemas.yaml", `
tools:
  - name: check_eligibility
    description: Checks loan eligibility for a given amount and city.
    side_effects: false
    parameters:
      type: object
      required: [loan_amount, city]
      properties:
        loan_amount:
          type: number
        city:
          type: string
`)
	mustWrite("tools/branches.yaml", `
branches:
  mumbai: { address: "123 MG Road" }
`)
}

func TestLoaderLoadsAndCrossValidatesAFullDomain(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	writeFixture(t, dir)

	loaded, err := NewLoader(dir).Load()
	is.NoErr(err) // a well-formed domain directory must load cleanly

	is.Equal(loaded.Domain.Brand, "Acme Finance")
	_, ok := loaded.Schema.Slots["loan_amount"]
	is.True(ok) // loan_amount slot present in schema
	is.Equal(loaded.StageGraph.Initial, "greeting")
	_, ok = loaded.Objections["price_objection"]
	is.True(ok) // price_objection present in objection library
	is.Equal(len(loaded.Signals), 1)
	is.True(loaded.SystemPromptTemplate != "") // system prompt template loaded
	is.Equal(len(loaded.Tools), 1)
	is.True(loaded.Tools[0].Parameters != nil)
	_, ok = loaded.ToolDatasets["branches"]
	is.True(ok) // branches tool dataset loaded
}

func TestLoaderRejectsUnknownToolInTransitionAction(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	// Replace the tool schema so check_eligibility no longer exists.
	if err := os.WriteFile(filepath.Join(dir, "tools", "schemas.yaml"), []byte("tools: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewLoader(dir).Load()
	if err == nil {
		t.Fatal("expected a cross-validation error for an unknown tool reference")
	}
}

func TestLoaderRejectsGoalReferencingUnknownSlot(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "goals.yaml"), []byte(`
goals:
  - id: apply_loan
    required_slots: [nonexistent_slot]
intent_to_goal: {}
`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewLoader(dir).Load()
	if err == nil {
		t.Fatal("expected an error for a goal referencing an unknown slot")
	}
}
