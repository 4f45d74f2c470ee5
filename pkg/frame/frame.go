// Package frame defines the tagged-union event that flows through the
// pipeline (C1): every processor consumes and emits Frames, never raw
// domain types directly.
package frame

import "fmt"

// Kind tags the payload carried by a Frame.
type Kind int

const (
	KindAudioInput Kind = iota
	KindPartialTranscript
	KindFinalTranscript
	KindTurnStart
	KindTurnEnd
	KindBargeIn
	KindLLMChunk
	KindSentence
	KindAudioOutput
	KindToolCall
	KindToolResult
	KindStageChange
	KindSignal
	KindError
	KindShutdown
	KindDropped
)

func (k Kind) String() string {
	switch k {
	case KindAudioInput:
		return "AudioInput"
	case KindPartialTranscript:
		return "PartialTranscript"
	case KindFinalTranscript:
		return "FinalTranscript"
	case KindTurnStart:
		return "TurnStart"
	case KindTurnEnd:
		return "TurnEnd"
	case KindBargeIn:
		return "BargeIn"
	case KindLLMChunk:
		return "LLMChunk"
	case KindSentence:
		return "Sentence"
	case KindAudioOutput:
		return "AudioOutput"
	case KindToolCall:
		return "ToolCall"
	case KindToolResult:
		return "ToolResult"
	case KindStageChange:
		return "StageChange"
	case KindSignal:
		return "Signal"
	case KindError:
		return "Error"
	case KindShutdown:
		return "Shutdown"
	case KindDropped:
		return "Dropped"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Frame is the envelope every processor reads and writes. StreamID groups
// frames belonging to one logical audio/text stream (usually a session);
// Seq is strictly increasing per StreamID and is assigned by a Bus.
type Frame struct {
	Kind     Kind
	StreamID string
	Seq      uint64
	Payload  any
}

// Dropped is the payload of a KindDropped frame, emitted whenever an edge's
// drop-oldest policy discards a frame instead of silently losing it.
type Dropped struct {
	Reason  string
	Dropped Frame
}

// ErrorPayload is the payload of a KindError frame: a non-fatal error
// surfaced by the processor named Source.
type ErrorPayload struct {
	Source string
	Kind   string
	Err    error
}

// Shutdown is the payload of a KindShutdown frame. An empty Reason means a
// normal, caller-initiated shutdown.
type Shutdown struct {
	Reason string
}

// Signal is the payload of a KindSignal frame: a behavioral or diagnostic
// cue detected by some processor. Kind is a label drawn from configuration
// (e.g. "price_objection", "validation_failed", "retrieval_degraded"), not
// a fixed enum — per spec.md's "kinds are drawn from configuration; not
// hardcoded".
type Signal struct {
	Kind        string
	Weight      float64
	DetectedAtMS int64
	Detail      string
}
