package speculative

import "context"

// Budget caps the number of concurrent in-flight speculative (and regular)
// generation calls across every Executor sharing it, per spec.md's "All
// candidates respect a global budget (max concurrent in-flight calls)"
// requirement.
type Budget struct {
	sem chan struct{}
}

// NewBudget creates a Budget allowing up to max concurrent acquisitions.
func NewBudget(max int) *Budget {
	if max < 1 {
		max = 1
	}
	return &Budget{sem: make(chan struct{}, max)}
}

// Acquire blocks until a slot is free or ctx is cancelled.
func (b *Budget) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot acquired by Acquire.
func (b *Budget) Release() {
	select {
	case <-b.sem:
	default:
	}
}
