package command

import (
	"context"
	"sync"

	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/executor"
)

// Recording is a Buffer that appends its own Name to a shared,
// mutex-guarded log every time it's issued, letting tests assert on
// FIFO issue ordering across a queue. If Leaf is true it also enqueues
// a trivial leaf task wired to completion, so tests can exercise the
// fan-in path from a command buffer's own asynchronous work into
// RetireCmd.
type Recording struct {
	Name string
	Leaf bool

	mu  *sync.Mutex
	Log *[]string
}

// NewRecorder returns a shared log and a constructor for Recording
// buffers that all append to it.
func NewRecorder() (*[]string, func(name string, leaf bool) *Recording) {
	var mu sync.Mutex
	log := make([]string, 0)
	return &log, func(name string, leaf bool) *Recording {
		return &Recording{Name: name, Leaf: leaf, mu: &mu, Log: &log}
	}
}

// Issue implements Buffer.
func (r *Recording) Issue(ctx context.Context, state QueueState, completion *executor.Header, ar *arena.Arena, pending *executor.Submission) error {
	r.mu.Lock()
	*r.Log = append(*r.Log, r.Name)
	r.mu.Unlock()

	if !r.Leaf {
		return nil
	}

	exec := completion.Executor()
	leaf := exec.NewTask(func(*executor.Submission) error { return nil })
	leaf.SetCompletion(completion)
	pending.Enqueue(leaf)
	return nil
}

// Failing is a Buffer that always fails with Err when issued.
type Failing struct {
	Err error
}

// Issue implements Buffer.
func (f *Failing) Issue(ctx context.Context, state QueueState, completion *executor.Header, ar *arena.Arena, pending *executor.Submission) error {
	return f.Err
}
