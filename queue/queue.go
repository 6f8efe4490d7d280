// Package queue implements the per-queue submission pipeline: turning
// each submitted batch into a small DAG of wait/issue/retire tasks,
// stitching successive batches' issues together in FIFO order, eliding
// same-queue semaphore waits, and propagating failures to every
// downstream dependent across queues.
//
// Everything here is built on top of five external collaborators —
// executor, semaphore, arena, scope, command — none of which this package
// reaches into beyond the interfaces it consumes.
package queue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	iree "github.com/julianwa/iree"
	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/command"
	"github.com/julianwa/iree/executor"
	"github.com/julianwa/iree/id"
	"github.com/julianwa/iree/scope"
	"github.com/julianwa/iree/semaphore"
)

// SemaphoreValue pairs a semaphore reference with the payload value a
// wait or signal is stated against.
type SemaphoreValue struct {
	Semaphore *semaphore.Semaphore
	Value     uint64
}

// Batch is one unit of caller intent: commands must not begin issuing
// until every Wait semaphore reaches its payload value, and every
// Signal semaphore must advance to its payload value only after every
// command in Commands has fully completed.
type Batch struct {
	Wait     []SemaphoreValue
	Commands []command.Buffer
	Signal   []SemaphoreValue
}

// Option configures a Queue constructed with New.
type Option func(*Queue)

// WithLogger overrides the queue's logger. The default discards all
// output.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// Queue is a single FIFO submission pipeline bound to one executor and
// one block pool. Batches submitted to it issue in submission order;
// the commands within and across batches may complete in any order the
// executor's workers happen to schedule them.
type Queue struct {
	ID id.QueueID

	exec  *executor.Executor
	pool  *arena.BlockPool
	scope *scope.TaskScope
	state command.QueueState

	logger *slog.Logger

	mu        sync.Mutex
	tailIssue *executor.Header
}

// New creates a Queue identified by identifier, sharing exec and pool
// with whatever else uses them. It retains exec for the queue's
// lifetime.
func New(identifier string, exec *executor.Executor, pool *arena.BlockPool, state command.QueueState, opts ...Option) (*Queue, error) {
	if exec == nil {
		return nil, fmt.Errorf("queue %q: %w: nil executor", identifier, iree.ErrInvalidArgument)
	}
	if pool == nil {
		return nil, fmt.Errorf("queue %q: %w: nil block pool", identifier, iree.ErrInvalidArgument)
	}

	exec.Retain()
	q := &Queue{
		ID:     id.NewQueueID(),
		exec:   exec,
		pool:   pool,
		scope:  scope.New(identifier),
		state:  state,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Close waits for the queue to go idle, then releases the executor.
// It is an error to call Close while a concurrent Submit may still be
// in flight.
func (q *Queue) Close() error {
	if err := q.scope.WaitIdle(context.Background()); err != nil {
		return fmt.Errorf("queue %s: close: %w", q.ID, err)
	}
	q.mu.Lock()
	tail := q.tailIssue
	q.mu.Unlock()
	if tail != nil {
		return fmt.Errorf("queue %s: close: %w: tail issue still set", q.ID, iree.ErrFailedPrecondition)
	}
	q.exec.Release()
	q.logger.Debug("queue closed", "queue", q.ID)
	return nil
}

// Submit enqueues each batch in order, then flushes the executor so
// every newly-enqueued task is visible to worker goroutines. It fails
// fast on the first batch whose DAG could not be constructed; batches
// already handed to the executor before that point continue running
// to completion (each owns its own retire, which cleans up on its
// own). Submit with no batches is a no-op.
//
// Each call is one caller-visible submit-batch call, so it gets its
// own SubmissionID purely for log correlation across the batches it
// carries — it is not stored anywhere, since nothing downstream needs
// to look a submission back up by ID.
func (q *Queue) Submit(batches ...Batch) error {
	if len(batches) == 0 {
		return nil
	}
	subID := id.NewSubmissionID()
	for i, b := range batches {
		if err := q.submitBatch(b); err != nil {
			q.logger.Error("submit batch failed", "queue", q.ID, "submission", subID, "batch", i, "error", err)
			return fmt.Errorf("queue %s: submit batch %d: %w", q.ID, i, err)
		}
	}
	q.exec.Flush()
	q.logger.Debug("submitted batches", "queue", q.ID, "submission", subID, "count", len(batches))
	return nil
}

// WaitIdle blocks until every task this queue has registered has
// drained, or ctx is done.
func (q *Queue) WaitIdle(ctx context.Context) error {
	return q.scope.WaitIdle(ctx)
}
