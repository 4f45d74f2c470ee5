// Package speculative starts candidate LLM completions before end-of-turn
// is confirmed and cancels the ones that lose, to cut perceived response
// latency. It implements orchestrator.ResponseGenerator directly so it can
// replace a plain LLM-backed generator without the orchestrator knowing
// speculation is happening.
package speculative

import (
	"context"
	"fmt"
	"sync"

	"github.com/vaak-ai/voicecore/pkg/ai/llm"
)

// Mode selects how aggressively the executor races candidates against the
// turn-end decision. Off disables every behavior in this file; RunTurn's
// LLMGenerator path is equivalent to ModeOff with no Budget overhead.
type Mode int

const (
	ModeOff Mode = iota
	ModePredictOnPartial
	ModeMultiCandidate
	ModeTwoPhase
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModePredictOnPartial:
		return "predict_on_partial"
	case ModeMultiCandidate:
		return "multi_candidate"
	case ModeTwoPhase:
		return "two_phase"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// CandidateConfig is one generation setting multi-candidate mode races in
// parallel.
type CandidateConfig struct {
	Temperature float64
	TopP        float64
}

// Config is the per-session speculative execution policy, loaded from
// domain configuration; nothing here is hardcoded by a caller.
type Config struct {
	Mode Mode

	// PartialConfidenceThreshold is T1: the minimum VAD turn-end confidence
	// a partial transcript needs before Predict-on-Partial or Multi-Candidate
	// starts speculating.
	PartialConfidenceThreshold float64

	// RollbackToleranceRatio bounds Levenshtein distance between the
	// speculated prefix and the accepted final transcript, as a fraction of
	// the final transcript's length, before a Predict-on-Partial speculation
	// is discarded and a fresh generation is started on the final transcript.
	RollbackToleranceRatio float64

	// Candidates configures Multi-Candidate mode; each entry races one
	// generation with its own sampling settings.
	Candidates []CandidateConfig

	// AckMaxTokens bounds the short acknowledgement Two-Phase mode generates
	// on a partial transcript, before the full response is generated on
	// TurnEnd.
	AckMaxTokens int
}

// DefaultConfig disables speculation; a deployment opts in per spec.md's
// configurable modes.
func DefaultConfig() Config {
	return Config{
		Mode:                       ModeOff,
		PartialConfidenceThreshold: 0.7,
		RollbackToleranceRatio:     0.2,
		AckMaxTokens:               24,
	}
}

// speculation tracks one in-flight or completed candidate generation.
type speculation struct {
	prefixText string
	cancel     context.CancelFunc
	done       chan struct{}
	result     llm.ChatResponse
	err        error
}

func (s *speculation) wait() (llm.ChatResponse, error) {
	<-s.done
	return s.result, s.err
}

// Executor races candidate completions against a confirmed turn-end and
// implements orchestrator.ResponseGenerator so the orchestrator can use it
// in place of a plain LLM-backed generator. One Executor is scoped to a
// single session's Conversation, matching the single-writer-per-session
// ownership rule the rest of the orchestration layer follows.
type Executor struct {
	cfg     Config
	backend llm.LLM
	budget  *Budget

	mu     sync.Mutex
	active *speculation
	epoch  int
	ack    string
	hasAck bool
}

// New creates an Executor. budget may be nil, in which case a
// per-Executor budget of 1 concurrent call is used.
func New(cfg Config, backend llm.LLM, budget *Budget) *Executor {
	if budget == nil {
		budget = NewBudget(1)
	}
	return &Executor{cfg: cfg, backend: backend, budget: budget}
}

// OnPartial is called by the partial-transcript processor whenever a new
// partial stabilizes, with the current turn-end confidence from the turn
// detector's completion scorer. It starts speculative generation per the
// configured Mode; it is a no-op under ModeOff.
func (e *Executor) OnPartial(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition, partialText string, turnEndConfidence float64) {
	switch e.cfg.Mode {
	case ModeOff:
		return
	case ModePredictOnPartial:
		if turnEndConfidence < e.cfg.PartialConfidenceThreshold {
			return
		}
		e.startSingle(ctx, messages, tools, partialText)
	case ModeMultiCandidate:
		if turnEndConfidence < e.cfg.PartialConfidenceThreshold {
			return
		}
		e.startRace(ctx, messages, tools, partialText)
	case ModeTwoPhase:
		if turnEndConfidence < e.cfg.PartialConfidenceThreshold {
			return
		}
		e.startAck(ctx, messages, partialText)
	}
}

// startSingle launches one candidate generation appending partialText as a
// provisional final user turn, replacing any prior in-flight speculation
// for this session (a session has only one active utterance at a time).
func (e *Executor) startSingle(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition, partialText string) {
	e.mu.Lock()
	if e.active != nil {
		e.active.cancel()
	}
	specCtx, cancel := context.WithCancel(ctx)
	spec := &speculation{prefixText: partialText, cancel: cancel, done: make(chan struct{})}
	e.active = spec
	e.mu.Unlock()

	provisional := append(append([]llm.Message{}, messages...), llm.Message{Role: llm.RoleUser, Content: partialText})
	go e.run(specCtx, spec, provisional, tools, nil)
}

// startRace launches one candidate per configured CandidateConfig and keeps
// the first to produce a complete-enough first sentence as the session's
// active speculation, cancelling the rest. "Complete-enough" here means the
// candidate's message contains at least one full sentence terminator.
func (e *Executor) startRace(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition, partialText string) {
	e.mu.Lock()
	if e.active != nil {
		e.active.cancel()
	}
	e.active = nil
	e.mu.Unlock()

	epoch := e.epoch

	candidates := e.cfg.Candidates
	if len(candidates) == 0 {
		candidates = []CandidateConfig{{Temperature: 0.7, TopP: 1.0}}
	}
	provisional := append(append([]llm.Message{}, messages...), llm.Message{Role: llm.RoleUser, Content: partialText})

	raceCtx, raceCancel := context.WithCancel(ctx)
	winner := make(chan *speculation, len(candidates))
	for _, cc := range candidates {
		cc := cc
		candCtx, candCancel := context.WithCancel(raceCtx)
		spec := &speculation{prefixText: partialText, cancel: candCancel, done: make(chan struct{})}
		go func() {
			e.run(candCtx, spec, provisional, tools, &cc)
			if spec.err == nil && hasSentenceBreak(spec.result.Message.Content) {
				select {
				case winner <- spec:
				default:
				}
			}
		}()
	}

	go func() {
		select {
		case w := <-winner:
			raceCancel()
			e.mu.Lock()
			if e.active == nil && e.epoch == epoch {
				e.active = w
			} else {
				w.cancel()
			}
			e.mu.Unlock()
		case <-raceCtx.Done():
		}
	}()
}

// startAck launches the Two-Phase short acknowledgement on a partial
// transcript. The full response is always generated fresh on TurnEnd via
// Generate; Ack only feeds an interim utterance the caller may choose to
// speak while the full response is pending.
func (e *Executor) startAck(ctx context.Context, messages []llm.Message, partialText string) {
	ackCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		provisional := append(append([]llm.Message{}, messages...), llm.Message{Role: llm.RoleUser, Content: partialText})
		resp, err := e.backend.Chat(ackCtx, llm.ChatRequest{Messages: provisional, MaxTokens: e.cfg.AckMaxTokens})
		if err != nil {
			return
		}
		e.mu.Lock()
		e.ack = resp.Message.Content
		e.hasAck = true
		e.mu.Unlock()
	}()
}

// Acknowledgement returns the Two-Phase short acknowledgement generated on
// the latest partial, if one completed, and clears it so it is only
// consumed once per turn.
func (e *Executor) Acknowledgement() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasAck {
		return "", false
	}
	ack := e.ack
	e.ack = ""
	e.hasAck = false
	return ack, true
}

// Generate implements orchestrator.ResponseGenerator. It is called once
// end-of-turn is confirmed with the final transcript already appended to
// messages. Under ModeOff it always does a fresh call; under
// Predict-on-Partial and Multi-Candidate it reuses an in-flight or
// completed speculation whose prefix matches the final transcript within
// tolerance, discarding and regenerating otherwise.
func (e *Executor) Generate(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	e.mu.Lock()
	active := e.active
	e.active = nil
	e.epoch++
	e.mu.Unlock()

	if active == nil || e.cfg.Mode == ModeOff {
		return e.generateFresh(ctx, req)
	}

	finalText := lastUserContent(req.Messages)
	result, err := active.wait()
	if err == nil && withinTolerance(active.prefixText, finalText, e.cfg.RollbackToleranceRatio) {
		return result, nil
	}

	active.cancel()
	return e.generateFresh(ctx, req)
}

func (e *Executor) generateFresh(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	if err := e.budget.Acquire(ctx); err != nil {
		return llm.ChatResponse{}, err
	}
	defer e.budget.Release()

	return e.backend.Chat(ctx, req)
}

// run executes one candidate generation under the global budget and
// records its outcome on spec, closing spec.done exactly once.
func (e *Executor) run(ctx context.Context, spec *speculation, messages []llm.Message, tools []llm.ToolDefinition, candidate *CandidateConfig) {
	defer close(spec.done)

	if err := e.budget.Acquire(ctx); err != nil {
		spec.err = err
		return
	}
	defer e.budget.Release()

	req := llm.ChatRequest{Messages: messages, Tools: tools}
	if candidate != nil {
		req.Temperature = float32(candidate.Temperature)
		req.TopP = float32(candidate.TopP)
	}
	resp, err := e.backend.Chat(ctx, req)
	if err != nil {
		spec.err = err
		return
	}
	spec.result = resp
}

// Reset discards any in-flight or completed speculation, cancelling it.
// Call this on BargeIn: losing speculations' partial tokens must never
// reach TTS.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		e.active.cancel()
		e.active = nil
	}
	e.epoch++
	e.ack = ""
	e.hasAck = false
}

func lastUserContent(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func hasSentenceBreak(text string) bool {
	for _, r := range text {
		switch r {
		case '.', '?', '!', '।', '॥':
			return true
		}
	}
	return false
}
