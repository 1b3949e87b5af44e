package runner

import "context"

// maxGateCapacity is the hard upper bound on simultaneous in-flight requests
// regardless of batch size.
const maxGateCapacity = 1000

// gate is a counting admission control over in-flight request attempts,
// implemented as a buffered channel semaphore.
type gate struct {
	slots chan struct{}
}

func newGate(capacity int) *gate {
	if capacity < 1 {
		capacity = 1
	}
	if capacity > maxGateCapacity {
		capacity = maxGateCapacity
	}
	return &gate{slots: make(chan struct{}, capacity)}
}

// acquire blocks until a slot is free or the context is done.
func (g *gate) acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release frees a slot. Callers defer it immediately after a successful
// acquire so the slot is returned on every exit path.
func (g *gate) release() {
	<-g.slots
}

func (g *gate) capacity() int {
	return cap(g.slots)
}
