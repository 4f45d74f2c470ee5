package orchestrator

import (
	"strings"

	"github.com/vaak-ai/voicecore/pkg/dialogue"
	"github.com/vaak-ai/voicecore/pkg/retrieval"
)

// PromptTemplate is a system-prompt template string with `{field}`
// placeholders, loaded from configuration.
type PromptTemplate string

// PromptContext gathers every input the system prompt template is allowed
// to interpolate. Assembly is a pure function of these fields so the same
// inputs always produce the same prompt.
type PromptContext struct {
	AgentName                string
	Brand                    string
	PersonaTraits            string
	StageGuidance            string
	KeyFacts                 string
	RetrievedContext         []retrieval.ScoredDocument
	ToolDescriptions         string
	RecentTurns              []ConversationTurn
	NBAGuidance              []dialogue.NBA
	PersonalizationGuidance  string
}

// AssembleSystemPrompt interpolates tmpl with ctx's fields, rendering
// multi-value fields (retrieved context, recent turns, NBA guidance) into
// labelled sections.
func AssembleSystemPrompt(tmpl PromptTemplate, ctx PromptContext) string {
	replacer := strings.NewReplacer(
		"{agent_name}", ctx.AgentName,
		"{brand}", ctx.Brand,
		"{persona_traits}", ctx.PersonaTraits,
		"{stage_guidance}", ctx.StageGuidance,
		"{key_facts}", ctx.KeyFacts,
		"{retrieved_context}", renderDocuments(ctx.RetrievedContext),
		"{tools}", ctx.ToolDescriptions,
		"{recent_turns}", renderTurns(ctx.RecentTurns),
		"{nba_guidance}", renderNBAs(ctx.NBAGuidance),
		"{personalization_instructions}", ctx.PersonalizationGuidance,
	)
	return replacer.Replace(string(tmpl))
}

func renderDocuments(docs []retrieval.ScoredDocument) string {
	if len(docs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range docs {
		b.WriteString("- ")
		b.WriteString(d.Document.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTurns(turns []ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderNBAs(nbas []dialogue.NBA) string {
	if len(nbas) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range nbas {
		b.WriteString("- ")
		b.WriteString(n.Prompt)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
