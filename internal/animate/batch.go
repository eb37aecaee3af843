package animate

import (
	"context"
	"sync"
)

// Batch resolves once every transition it tracks has settled.
type Batch struct {
	mu      sync.Mutex
	pending int
	done    chan struct{}
}

func newBatch(n int) *Batch {
	b := &Batch{pending: n, done: make(chan struct{})}
	if n <= 0 {
		close(b.done)
	}
	return b
}

func (b *Batch) settle() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == 0 {
		return
	}
	b.pending--
	if b.pending == 0 {
		close(b.done)
	}
}

// Done is closed when the batch has settled.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the batch settles or ctx ends.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// All returns a batch that settles when every given batch has.
func All(batches ...*Batch) *Batch {
	out := newBatch(len(batches))
	for _, b := range batches {
		go func(b *Batch) {
			<-b.Done()
			out.settle()
		}(b)
	}
	return out
}
