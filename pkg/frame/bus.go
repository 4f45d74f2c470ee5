package frame

import "sync"

// Bus assigns strictly increasing Seq numbers per StreamID so that frames
// emitted by different processors for the same stream remain orderable
// end-to-end.
type Bus struct {
	mu   sync.Mutex
	seqs map[string]uint64
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{seqs: make(map[string]uint64)}
}

// Next returns the next Seq value for streamID, starting at 1.
func (b *Bus) Next(streamID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seqs[streamID]++
	return b.seqs[streamID]
}

// New builds a Frame with the next Seq for streamID.
func (b *Bus) New(streamID string, kind Kind, payload any) Frame {
	return Frame{Kind: kind, StreamID: streamID, Seq: b.Next(streamID), Payload: payload}
}

// Reset drops the sequence counter for streamID, used when a stream ends
// and its ID may later be reused.
func (b *Bus) Reset(streamID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.seqs, streamID)
}
