package executor

import (
	"sync"

	"github.com/julianwa/iree/id"
)

// TaskFunc is the body of a task: it does the task's work and may
// enqueue newly-ready tasks into pending for the executor to schedule
// once the body returns. A non-nil error marks the task as failed;
// the task's Completion still fires (with that error) so the DAG
// drains instead of hanging.
type TaskFunc func(pending *Submission) error

// Header is the scheduling metadata shared by every task node: a
// pending-predecessor count, a set of completion-task targets, and an
// optional cleanup callback that always runs (even on failure or when
// the task's body never runs because a predecessor already failed).
//
// A Header can have more than one completion target. This matters for
// FIFO issue stitching: a queue's tail issue task must notify both its
// own retire task and the next batch's issue task when it finishes,
// while the next issue task independently still has its own retire as
// a second, unrelated target. Cleanup is only safe to set before the
// task is enqueued. Completions may be added later only while something
// else keeps the task from reading them: the queue's FIFO stitching
// adds an edge to an already-enqueued issue task under the queue mutex,
// which that task's cleanup also takes before its completions are read.
type Header struct {
	ID id.TaskID

	exec *Executor
	body TaskFunc

	completions []*Header
	Cleanup     func(error)

	mu      sync.Mutex
	pending int
	err     error
}

// newHeader creates a Header owned by exec with the given body.
// body may be nil for tasks that exist purely to be waited on (Fence).
func newHeader(exec *Executor, body TaskFunc) *Header {
	return &Header{ID: id.NewTaskID(), exec: exec, body: body}
}

// SetCompletion adds target as one of h's completion-task edges: when
// h finishes (successfully or not), target's pending-predecessor count
// is decremented and target is scheduled once it reaches zero. Calling
// SetCompletion more than once on the same h wires h to fan out to
// every target added, not just the last. Must be called before h's
// completions are read, which happens right after its Cleanup runs.
func (h *Header) SetCompletion(target *Header) {
	if target == nil {
		return
	}
	h.completions = append(h.completions, target)
	target.addPending(1)
}

func (h *Header) addPending(n int) {
	h.mu.Lock()
	h.pending += n
	h.mu.Unlock()
}

// AddPending increments h's outstanding-predecessor count by n. It is
// exported for collaborators outside this package — the semaphore
// package — that model a predecessor edge (a timepoint) without a
// full Header of their own.
func (h *Header) AddPending(n int) {
	h.addPending(n)
}

// Resolve is the exported form of resolve, for collaborators outside
// this package (the semaphore package) that need to notify h of a
// predecessor's outcome directly, without that predecessor being a
// task the executor itself ran.
func (h *Header) Resolve(status error) {
	h.resolve(status)
}

// resolve is invoked once per predecessor edge into h: by the executor
// after running (or skipping) a predecessor's body, or directly by a
// collaborator that models a predecessor without a full task (a
// semaphore timepoint). status is nil on success; the first non-nil
// status observed wins and is what h's own body/cleanup sees.
func (h *Header) resolve(status error) {
	h.mu.Lock()
	if status != nil && h.err == nil {
		h.err = status
	}
	h.pending--
	ready := h.pending <= 0
	h.mu.Unlock()

	if ready {
		h.exec.schedule(h)
	}
}

// Executor returns the Executor that owns h, so a task's body can
// construct and wire new tasks into the same executor it's running on.
func (h *Header) Executor() *Executor {
	return h.exec
}
