package executor

import "context"

// Fence lets code outside the task graph observe when a chain of
// tasks has finished, without going through a TaskScope's broader
// WaitIdle. A queue acquires one per submission and wires its
// RetireCmd's completion to the fence's header so Wait returns once
// the entire submission — including every command buffer it issued —
// has drained.
type Fence struct {
	Header *Header

	done chan struct{}
	err  error
}

// Wait blocks until the fence's header resolves or ctx is done,
// whichever comes first.
func (f *Fence) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that closes once the fence resolves.
func (f *Fence) Done() <-chan struct{} {
	return f.done
}
