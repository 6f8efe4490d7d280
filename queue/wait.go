package queue

import (
	"fmt"

	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/executor"
)

// waitCmd is the optional predecessor to issueCmd when a batch has
// unsatisfied waits. Its body does not block: it registers a
// timepoint per semaphore and returns immediately. issueCmd only
// becomes ready once every timepoint has resolved.
type waitCmd struct {
	header *executor.Header
	issue  *executor.Header
	wait   []SemaphoreValue
}

// newWaitCmd allocates a WaitCmd from ar and wires its completion to
// issue. wait must already be a validated, retained clone (see
// cloneSemaphoreList) — newWaitCmd takes ownership of it and releases
// it from cleanup.
func newWaitCmd(exec *executor.Executor, ar *arena.Arena, issue *executor.Header, wait []SemaphoreValue) *waitCmd {
	w := arena.Allocate[waitCmd](ar)
	w.issue = issue
	w.wait = wait
	w.header = exec.NewTask(w.run)
	w.header.SetCompletion(issue)
	return w
}

// run registers each (semaphore, value) as a timepoint targeting the
// issue task directly — not this task's own header — so issue's
// pending count accounts for exactly one edge per wait semaphore, plus
// the one edge already added by SetCompletion for this task's own
// completion firing. A semaphore that already satisfies its threshold
// (the common same-queue case, since FIFO issue stitching guarantees a
// prior signal on this queue has already landed) resolves the
// timepoint synchronously before EnqueueTimepoint returns, never
// registering a real wait.
func (w *waitCmd) run(_ *executor.Submission) error {
	for i, sv := range w.wait {
		if err := sv.Semaphore.EnqueueTimepoint(sv.Value, w.issue); err != nil {
			return fmt.Errorf("wait: semaphore %d: %w", i, err)
		}
	}
	return nil
}

// cleanup releases every semaphore this task retained when it cloned
// the wait list.
func (w *waitCmd) cleanup(error) {
	releaseSemaphoreList(w.wait)
}
