package frame

import (
	"context"
	"time"
)

// Processor is one cooperative pipeline stage: given a single input Frame
// it emits zero or more output Frames via emit. Process must not block
// beyond brief suspension points (channel send, network await, timer);
// CPU-heavy work belongs on a separate worker pool, dispatched from inside
// Process.
type Processor interface {
	Name() string
	Process(ctx context.Context, in Frame, emit func(Frame)) error
}

// ShutdownGrace bounds how long a processor is given to flush in-flight
// work after receiving a Shutdown frame before the chain moves on.
const ShutdownGrace = 2 * time.Second

// ProcessorFunc adapts a plain function to the Processor interface for
// stateless stages.
type ProcessorFunc struct {
	FuncName string
	Fn       func(ctx context.Context, in Frame, emit func(Frame)) error
}

func (p ProcessorFunc) Name() string { return p.FuncName }

func (p ProcessorFunc) Process(ctx context.Context, in Frame, emit func(Frame)) error {
	return p.Fn(ctx, in, emit)
}
