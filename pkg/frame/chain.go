package frame

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type stage struct {
	name     string
	proc     Processor
	capacity int
	policy   Policy
}

// Chain is a builder that wires Processors in order, each connected to the
// next by a bounded Edge. The audio sink/source at the ends are ordinary
// channels exposed to transport.
type Chain struct {
	stages []stage
	g      *errgroup.Group
}

// NewChain creates an empty processor chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends a processor stage, connected to its successor by an edge of
// the given capacity and overflow policy. A capacity of 0 uses
// DefaultCapacity.
func (c *Chain) Add(p Processor, capacity int, policy Policy) *Chain {
	c.stages = append(c.stages, stage{name: p.Name(), proc: p, capacity: capacity, policy: policy})
	return c
}

// Start launches every stage as an independent goroutine under a shared
// errgroup and returns the final stage's output channel. The chain stops
// early (and Wait returns the first error) if any stage returns a non-nil
// error from its run loop.
func (c *Chain) Start(ctx context.Context, input <-chan Frame) <-chan Frame {
	g, ctx := errgroup.WithContext(ctx)
	c.g = g

	cur := input
	for _, st := range c.stages {
		st := st
		curIn := cur
		edge := NewEdge(st.capacity, st.policy)
		g.Go(func() error {
			return runStage(ctx, st.name, curIn, edge, st.proc)
		})
		cur = edge.Receive()
	}
	return cur
}

// Wait blocks until every stage has exited, returning the first non-nil
// error encountered by any stage.
func (c *Chain) Wait() error {
	if c.g == nil {
		return nil
	}
	return c.g.Wait()
}

func runStage(ctx context.Context, name string, in <-chan Frame, out *Edge, p Processor) error {
	defer out.Close()

	emit := func(f Frame) {
		displaced, dropped := out.Send(ctx, f)
		if dropped {
			out.Send(ctx, Frame{
				Kind:     KindDropped,
				StreamID: displaced.StreamID,
				Payload:  Dropped{Reason: "edge full", Dropped: displaced},
			})
		}
	}

	for {
		select {
		case f, ok := <-in:
			if !ok {
				return nil
			}

			pctx, cancelGrace := ctx, context.CancelFunc(func() {})
			if f.Kind == KindShutdown {
				pctx, cancelGrace = context.WithTimeout(ctx, ShutdownGrace)
			}
			forwarded := false
			err := p.Process(pctx, f, func(o Frame) {
				forwarded = forwarded || o.Kind == KindShutdown
				emit(o)
			})
			cancelGrace()
			if err != nil {
				emit(Frame{
					Kind:     KindError,
					StreamID: f.StreamID,
					Payload:  ErrorPayload{Source: name, Kind: "processor_error", Err: err},
				})
			}

			if f.Kind == KindShutdown {
				// Process flushed in-flight work above under ShutdownGrace;
				// forward the Shutdown unless the processor already did.
				if !forwarded {
					emit(f)
				}
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
