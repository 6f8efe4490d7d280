package queue

import (
	"fmt"

	"github.com/julianwa/iree/executor"
)

// bindScope registers a newly constructed task with the queue's scope
// and wraps cleanup so the task unregisters itself once it drains,
// regardless of how it finished. Every task the queue constructs goes
// through this so WaitIdle can observe "nothing from any submission
// arena is still reachable."
func (q *Queue) bindScope(h *executor.Header, cleanup func(error)) {
	q.scope.Register()
	h.Cleanup = func(err error) {
		if cleanup != nil {
			cleanup(err)
		}
		q.scope.Unregister()
	}
}

// submitBatch is the central algorithm: build one batch's wait/issue/
// retire DAG, stitch it onto the queue's FIFO issue chain, and hand
// the root off to the executor. The only way building the DAG can fail
// is a malformed semaphore list (a nil Semaphore reference) — so every
// semaphore list is validated and cloned up front, before any task is
// constructed or registered with the scope, so a validation failure
// never needs to unwind partially-built state. Once the graph is
// handed off, ownership of failure handling belongs entirely to the
// task graph itself (a failed wait or command still drains through to
// a failed retire).
func (q *Queue) submitBatch(b Batch) error {
	signal, err := cloneSemaphoreList(b.Signal)
	if err != nil {
		return fmt.Errorf("queue %s: submit: %w", q.ID, err)
	}
	waitList, err := cloneSemaphoreList(b.Wait)
	if err != nil {
		releaseSemaphoreList(signal)
		return fmt.Errorf("queue %s: submit: %w", q.ID, err)
	}

	retire := newRetireCmd(q.exec, q.pool, signal)
	q.bindScope(retire.header, retire.cleanup)

	fence := q.exec.AcquireFence(q.scope)
	retire.header.SetCompletion(fence.Header)

	issue := newIssueCmd(q, retire.arena, retire.header, b.Commands)
	q.bindScope(issue.header, issue.cleanup)

	var root *executor.Header
	if len(waitList) > 0 {
		wait := newWaitCmd(q.exec, retire.arena, issue.header, waitList)
		q.bindScope(wait.header, wait.cleanup)
		root = wait.header
	} else {
		root = issue.header
	}

	q.mu.Lock()
	chained := q.tailIssue != nil
	if chained {
		q.tailIssue.SetCompletion(issue.header)
	}
	q.tailIssue = issue.header
	q.mu.Unlock()

	// An issue root chained onto the previous tail issue has an
	// outstanding predecessor: the executor schedules it once that
	// issue resolves, so it is not enqueued as ready here.
	if chained && root == issue.header {
		return nil
	}

	sub := executor.NewSubmission()
	sub.Enqueue(root)
	q.exec.Submit(sub)
	return nil
}
