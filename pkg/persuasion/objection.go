package persuasion

import "fmt"

// ObjectionResponse is the four-part ACRE (Acknowledge, Reframe, Evidence,
// Call-to-action) template a persuasion config declares per objection
// kind; none of these strings are hardcoded in code.
type ObjectionResponse struct {
	Acknowledge  string
	Reframe      string
	Evidence     string
	CallToAction string
}

// Render joins the four parts into the labelled section prompt assembly
// injects verbatim into the system prompt.
func (r ObjectionResponse) Render() string {
	return fmt.Sprintf("Acknowledge: %s\nReframe: %s\nEvidence: %s\nCall to action: %s", r.Acknowledge, r.Reframe, r.Evidence, r.CallToAction)
}

// ObjectionLibrary maps a signal kind (e.g. "price_objection",
// "trust_concern") to its configured ACRE response.
type ObjectionLibrary map[string]ObjectionResponse

// RespondTo returns the response configured for a signal's kind, and
// whether one exists. Only Signal kinds present in the library are
// treated as objections the persuasion subsystem answers.
func (lib ObjectionLibrary) RespondTo(signalKind string) (ObjectionResponse, bool) {
	r, ok := lib[signalKind]
	return r, ok
}
