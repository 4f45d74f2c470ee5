package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/vaak-ai/voicecore/pkg/dialogue"
	"github.com/vaak-ai/voicecore/pkg/fsm"
	"github.com/vaak-ai/voicecore/pkg/frame"
	"github.com/vaak-ai/voicecore/pkg/persuasion"
	"github.com/vaak-ai/voicecore/pkg/retrieval"
	"github.com/vaak-ai/voicecore/pkg/ai/llm"
	aitts "github.com/vaak-ai/voicecore/pkg/ai/tts"
	coretts "github.com/vaak-ai/voicecore/pkg/tts"
)

// maxToolIterations bounds the tool-call follow-up loop within one turn so
// a misbehaving tool or LLM can't spin a turn forever.
const maxToolIterations = 3

// turnValidate checks TurnRequest's struct tags before a turn ever touches
// extraction, retrieval, or generation — the cheap scalar-shape check the
// generic JSONSchema path (used for config-declared tool arguments) isn't
// needed for here.
var turnValidate = validator.New()

// TurnRequest is one inbound user turn: the recognized transcript and the
// time it completed, validated before RunTurn does any work with it.
type TurnRequest struct {
	Transcript string `validate:"required"`
	AtMS       int64  `validate:"min=0"`
}

// Validate reports whether req satisfies its struct tags.
func (req TurnRequest) Validate() error {
	if err := turnValidate.Struct(req); err != nil {
		return fmt.Errorf("orchestrator: invalid turn request: %w", err)
	}
	return nil
}

// ResponseGenerator produces one assistant completion from a chat request.
// A plain llm.LLM satisfies this via LLMGenerator; the speculative executor
// satisfies it directly.
type ResponseGenerator interface {
	Generate(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error)
}

// LLMGenerator adapts a plain llm.LLM into a ResponseGenerator for
// configurations that don't enable speculative execution.
type LLMGenerator struct {
	Backend llm.LLM
}

func (g LLMGenerator) Generate(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	return g.Backend.Chat(ctx, req)
}

// ToolExecutor dispatches one named tool call and returns its JSON result.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, argumentsJSON string) (string, error)
	Definitions() []llm.ToolDefinition
}

// Deps wires every backend and configured table a turn needs. Fields left
// nil/zero disable the corresponding optional step (e.g. Extractor,
// Retrieval, Tools, TTS, Summarizer).
type Deps struct {
	Schema         dialogue.Schema
	Extractor      *dialogue.Extractor
	IntentDetector *IntentDetector
	Recommender    *dialogue.Recommender
	Retrieval      *retrieval.Engine
	Generator      ResponseGenerator
	Tools          ToolExecutor
	// IntentToolMap triggers a tool by detected intent even when the LLM's
	// own output carries no tool_call, per spec.md §4.9's dual-trigger rule.
	IntentToolMap    map[string]string
	SignalDetector   *persuasion.Detector
	ObjectionLibrary persuasion.ObjectionLibrary
	TTS              *coretts.Engine
	Summarizer       *Summarizer
	Degradation      DegradationPhrases
	PromptTemplate   PromptTemplate

	AgentName     string
	Brand         string
	PersonaTraits string

	MaxVerbatimTurns int
	RetrievalK       int
}

// TurnResult is everything the caller needs to react to a completed turn.
type TurnResult struct {
	ResponseText string
	Signals      []frame.Signal
	Actions      []fsm.Action
	TTSEvents    <-chan coretts.Event
	Degraded     bool
}

// RunTurn executes one full user-turn cycle: DST extraction, intent
// detection, FSM transition, retrieval, prompt assembly, generation
// (with a bounded tool-call loop), and TTS enqueueing.
func RunTurn(ctx context.Context, session *Session, deps Deps, req TurnRequest) (TurnResult, error) {
	if err := req.Validate(); err != nil {
		return TurnResult{}, err
	}
	transcript, atMS := req.Transcript, req.AtMS

	session.Touch(atMS)
	session.Conversation.Append(ConversationTurn{Role: RoleUser, Text: transcript, AtMS: atMS})

	var signals []frame.Signal
	slotsUpdated := false

	if deps.Extractor != nil {
		for _, ev := range deps.Extractor.Extract(transcript, session.Language) {
			value, err := deps.Extractor.Validate(ev)
			if err != nil {
				if vf, ok := err.(dialogue.ValidationFailure); ok {
					signals = append(signals, vf.Signal(atMS))
				}
				continue
			}
			if session.Dialogue.Merge(ev.Slot, value, ev.Confidence, dialogue.SourceUtterance, atMS) {
				slotsUpdated = true
			}
		}
	}

	intent := ""
	if deps.IntentDetector != nil {
		intent = deps.IntentDetector.Detect(transcript)
		if intent != "" {
			session.Dialogue.SetIntent(intent, deps.Schema.IntentToGoal)
		}
	}

	var detectedSignals []frame.Signal
	event := fsm.EventTurnEnd
	if deps.SignalDetector != nil {
		detectedSignals = deps.SignalDetector.Detect(transcript, session.Language, atMS)
		signals = append(signals, detectedSignals...)
		for _, sig := range detectedSignals {
			if _, isObjection := deps.ObjectionLibrary.RespondTo(sig.Kind); isObjection {
				event = fsm.EventObjectionDetected
			}
		}
	}
	switch {
	case intent != "":
		event = fsm.EventIntentDetected
	case event == fsm.EventObjectionDetected:
		// keep the objection event; it outranks a plain slot update.
	case slotsUpdated:
		event = fsm.EventSlotUpdated
	}
	actions, err := session.Machine.Transition(event)
	if err != nil {
		slog.Warn("orchestrator: fsm transition rejected", slog.String("event", string(event)), slog.String("stage", session.Machine.Stage()))
		actions = nil
	}
	stage := session.Machine.Stage()

	var retrieved []retrieval.ScoredDocument
	degraded := false
	if deps.Retrieval != nil {
		result := deps.Retrieval.Retrieve(ctx, retrieval.Query{Text: transcript, Language: session.Language, Stage: stage})
		retrieved = result.Documents
		degraded = degraded || result.Degraded
	}

	compressConversationIfNeeded(ctx, session, deps)

	var nbas []dialogue.NBA
	if deps.Recommender != nil {
		nbas = deps.Recommender.Recommend(session.Dialogue)
	}

	keyFacts := ""
	if intent != "" && deps.Tools != nil {
		if toolName, mapped := deps.IntentToolMap[intent]; mapped {
			slots, _, _, _ := session.Dialogue.Snapshot()
			args, _ := json.Marshal(slots)
			if result, err := deps.Tools.Execute(ctx, toolName, string(args)); err == nil {
				keyFacts = result
			}
		}
	}

	personalizationGuidance := persuasion.BuildGuidance(detectedSignals, deps.ObjectionLibrary)

	systemPrompt := AssembleSystemPrompt(deps.PromptTemplate, PromptContext{
		AgentName:               deps.AgentName,
		Brand:                   deps.Brand,
		PersonaTraits:           deps.PersonaTraits,
		StageGuidance:           stage,
		KeyFacts:                keyFacts,
		RetrievedContext:        retrieved,
		ToolDescriptions:        toolDescriptions(deps.Tools),
		RecentTurns:             recentTurns(session, deps.MaxVerbatimTurns),
		NBAGuidance:             nbas,
		PersonalizationGuidance: personalizationGuidance,
	})

	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}
	messages = append(messages, toLLMMessages(recentTurns(session, deps.MaxVerbatimTurns))...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: transcript})

	responseText, toolDegraded, err := runGenerationLoop(ctx, deps, messages)
	degraded = degraded || toolDegraded
	if err != nil {
		responseText = deps.Degradation.Phrase(DegradeLLM)
		signals = append(signals, DegradeLLM.Signal(atMS))
		degraded = true
	}

	session.Conversation.Append(ConversationTurn{Role: RoleAssistant, Text: responseText, AtMS: atMS})

	var ttsEvents <-chan coretts.Event
	if deps.TTS != nil && responseText != "" {
		sentences := make([]coretts.Sentence, 0)
		for _, s := range SplitSentences(responseText) {
			sentences = append(sentences, coretts.Sentence{Text: s, Language: session.Language})
		}
		ttsEvents = deps.TTS.Speak(ctx, aitts.SynthesizeRequest{Language: session.Language}, sentences)
	}

	return TurnResult{
		ResponseText: responseText,
		Signals:      signals,
		Actions:      actions,
		TTSEvents:    ttsEvents,
		Degraded:     degraded,
	}, nil
}

func runGenerationLoop(ctx context.Context, deps Deps, messages []llm.Message) (string, bool, error) {
	if deps.Generator == nil {
		return "", false, fmt.Errorf("orchestrator: no response generator configured")
	}

	var tools []llm.ToolDefinition
	if deps.Tools != nil {
		tools = deps.Tools.Definitions()
	}

	degraded := false
	for i := 0; i < maxToolIterations; i++ {
		resp, err := deps.Generator.Generate(ctx, llm.ChatRequest{Messages: messages, Tools: tools})
		if err != nil {
			return "", degraded, err
		}
		if len(resp.ToolCalls) == 0 || deps.Tools == nil {
			return resp.Message.Content, degraded, nil
		}

		messages = append(messages, resp.Message)
		for _, call := range resp.ToolCalls {
			result, err := deps.Tools.Execute(ctx, call.Name, call.Arguments)
			if err != nil {
				degraded = true
				result = toolErrorJSON(err)
			}
			messages = append(messages, llm.Message{Role: llm.RoleTool, Content: result, ToolCallID: call.ID})
		}
	}
	return "", degraded, fmt.Errorf("orchestrator: exceeded %d tool-call iterations", maxToolIterations)
}

func toolErrorJSON(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

func toolDescriptions(tools ToolExecutor) string {
	if tools == nil {
		return ""
	}
	defs := tools.Definitions()
	if len(defs) == 0 {
		return ""
	}
	var out string
	for _, d := range defs {
		out += "- " + d.Name + ": " + d.Description + "\n"
	}
	return out
}

func recentTurns(session *Session, maxVerbatim int) []ConversationTurn {
	turns := session.Conversation.Turns()
	if maxVerbatim <= 0 || len(turns) <= maxVerbatim {
		return turns
	}
	return turns[len(turns)-maxVerbatim:]
}

func toLLMMessages(turns []ConversationTurn) []llm.Message {
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := llm.RoleUser
		if t.Role == RoleAssistant {
			role = llm.RoleAssistant
		} else if t.Role == RoleTool {
			role = llm.RoleTool
		}
		out = append(out, llm.Message{Role: role, Content: t.Text})
	}
	return out
}

// compressConversationIfNeeded folds turns beyond MaxVerbatimTurns into the
// running summary, keeping required slots implicitly safe since they live
// in DialogueState, not conversation text.
func compressConversationIfNeeded(ctx context.Context, session *Session, deps Deps) {
	if deps.Summarizer == nil || deps.MaxVerbatimTurns <= 0 {
		return
	}
	turns := session.Conversation.Turns()
	if len(turns) <= deps.MaxVerbatimTurns {
		return
	}
	older := turns[:len(turns)-deps.MaxVerbatimTurns]
	summary, err := deps.Summarizer.Summarize(ctx, session.Conversation.Summary, older)
	if err != nil {
		slog.Warn("orchestrator: summarize failed, keeping verbatim history", slog.Any("error", err))
		return
	}
	session.Conversation.CompressOlder(deps.MaxVerbatimTurns, summary)
}
