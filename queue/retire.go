package queue

import (
	"fmt"

	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/executor"
)

// retireCmd is the terminal task of a submission. It owns the arena
// every other task in the submission was allocated from; its cleanup
// is the one place that arena is ever torn down.
type retireCmd struct {
	header *executor.Header
	signal []SemaphoreValue
	arena  *arena.Arena
}

// newRetireCmd allocates a RetireCmd from a fresh arena drawn from
// pool and wires its task body to the signalling routine. signal must
// already be a validated, retained clone (see cloneSemaphoreList) —
// newRetireCmd takes ownership of it and releases it from cleanup. The
// caller still needs to set the header's completion (the fence) and
// cleanup before enqueuing anything.
func newRetireCmd(exec *executor.Executor, pool *arena.BlockPool, signal []SemaphoreValue) *retireCmd {
	ar := arena.New(pool)
	retire := arena.Allocate[retireCmd](ar)
	retire.arena = ar
	retire.signal = signal
	retire.header = exec.NewTask(retire.run)
	return retire
}

// run signals every semaphore in the batch to its payload value. On
// the first failure it stops early and returns the error; cleanup
// still runs for every remaining semaphore via fail.
func (r *retireCmd) run(_ *executor.Submission) error {
	for _, sv := range r.signal {
		if err := sv.Semaphore.Signal(sv.Value); err != nil {
			return fmt.Errorf("retire: signal: %w", err)
		}
	}
	return nil
}

// cleanup runs unconditionally once the retire task's body has run (or
// been skipped because an upstream task already failed). On failure it
// fails every signal semaphore so downstream waiters on any queue
// observe it instead of hanging. It always releases the signal
// semaphores and tears down the arena last — every other task in the
// submission was allocated from it, so this is the point at which the
// whole submission's task graph becomes collectible.
func (r *retireCmd) cleanup(status error) {
	if status != nil {
		for _, sv := range r.signal {
			sv.Semaphore.Fail(status)
		}
	}
	releaseSemaphoreList(r.signal)

	// Move the arena out to a local before releasing it, mirroring the
	// original's discipline of copying the arena descriptor out before
	// tearing it down: r.arena is not read again after this point.
	ar := r.arena
	ar.Release()
}
