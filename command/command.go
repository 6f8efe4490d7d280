// Package command defines the Buffer contract a queue issues once a
// submission batch's wait semaphores are satisfied, along with a
// couple of small test doubles used across this module's test suites.
//
// A real command buffer is opaque to the queue: issuing it means
// handing its pre-compiled work to the executor as one or more leaf
// tasks and letting it run asynchronously. The queue never inspects
// what a Buffer actually does.
package command

import (
	"context"

	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/executor"
)

// QueueState is the opaque, queue-owned value threaded through to every
// Issue call — e.g. a binding-table cache a real backend would key
// issued commands against. The queue core never looks inside it.
type QueueState any

// Buffer is anything a queue can issue. Issue runs synchronously on
// the worker goroutine executing the owning IssueCmd's body: it should
// do any lightweight translation work itself and hand off the actual
// command execution by wiring new tasks' completion to completion and
// enqueueing them into pending, rather than blocking until its work
// finishes.
//
// ar is the submission's arena, available for any transient allocation
// the buffer's translation needs; it is released once the submission
// retires, so nothing issued from it may outlive that.
type Buffer interface {
	Issue(ctx context.Context, state QueueState, completion *executor.Header, ar *arena.Arena, pending *executor.Submission) error
}

// Func adapts a plain function to the Buffer interface, mirroring how
// http.HandlerFunc adapts a function to http.Handler.
type Func func(ctx context.Context, state QueueState, completion *executor.Header, ar *arena.Arena, pending *executor.Submission) error

// Issue calls f.
func (f Func) Issue(ctx context.Context, state QueueState, completion *executor.Header, ar *arena.Arena, pending *executor.Submission) error {
	return f(ctx, state, completion, ar, pending)
}
