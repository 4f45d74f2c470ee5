package fsm

import (
	"fmt"
	"sync"

	"github.com/vaak-ai/voicecore/pkg/dialogue"
)

// DefaultCheckpointSize is the ring buffer capacity used when a config
// doesn't override it.
const DefaultCheckpointSize = 16

// checkpointRing is a fixed-size circular buffer of the latest N
// checkpoints; pushing past capacity silently overwrites the oldest entry.
type checkpointRing struct {
	mu    sync.Mutex
	buf   []dialogue.Checkpoint
	next  int
	count int
}

func newCheckpointRing(size int) *checkpointRing {
	if size <= 0 {
		size = DefaultCheckpointSize
	}
	return &checkpointRing{buf: make([]dialogue.Checkpoint, size)}
}

func (r *checkpointRing) push(cp dialogue.Checkpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = cp
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// at returns the checkpoint `index` steps back from the most recent push
// (0 is the latest). It errors if index is out of the currently held
// range.
func (r *checkpointRing) at(index int) (dialogue.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= r.count {
		return dialogue.Checkpoint{}, fmt.Errorf("fsm: checkpoint index %d out of range (have %d)", index, r.count)
	}
	pos := (r.next - 1 - index + len(r.buf)) % len(r.buf)
	return r.buf[pos], nil
}

// Checkpoint snapshots state's current slot/stage/intent/goal at
// conversationCursor into the ring buffer.
func (m *Machine) Checkpoint(state *dialogue.State, conversationCursor, atMS int64) {
	m.cp.push(state.Checkpoint(conversationCursor, atMS))
}

// Restore rolls state back atomically to the checkpoint `index` steps
// before the most recent one, and moves the machine's own stage to match.
func (m *Machine) Restore(state *dialogue.State, index int) error {
	cp, err := m.cp.at(index)
	if err != nil {
		return err
	}
	state.Restore(cp)

	m.mu.Lock()
	m.stage = cp.Stage
	m.mu.Unlock()
	return nil
}
