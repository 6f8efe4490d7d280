// Package semaphore implements monotonic, 64-bit value semaphores: the
// cross-queue signalling primitive a submission batch waits on before
// issuing and signals after retiring. A semaphore also latches
// failures — once Fail is called, every future and pending wait on it
// resolves with that failure instead of hanging or signalling success.
package semaphore

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	iree "github.com/julianwa/iree"
	"github.com/julianwa/iree/executor"
	"github.com/julianwa/iree/id"
)

// Option configures a Semaphore constructed with New.
type Option func(*Semaphore)

// WithLogger overrides the semaphore's logger. The default discards
// all output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Semaphore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Semaphore is a monotonically increasing 64-bit counter with
// reference counting and a sticky failure latch. It is shared across
// however many queues hold a reference to it.
type Semaphore struct {
	ID id.SemaphoreID

	logger *slog.Logger

	mu         sync.Mutex
	value      uint64
	refs       int32
	failed     error
	timepoints []timepoint
}

type timepoint struct {
	value      uint64
	completion *executor.Header
}

// New creates a Semaphore with the given initial value and one
// outstanding reference.
func New(initial uint64, opts ...Option) *Semaphore {
	s := &Semaphore{
		ID:     id.NewSemaphoreID(),
		value:  initial,
		refs:   1,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retain increments the semaphore's reference count.
func (s *Semaphore) Retain() {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
}

// Release decrements the semaphore's reference count. Semaphore values
// live as long as any queue holds a reference; Release does not free
// anything explicitly since Go's GC reclaims the Semaphore once no
// reference (Go pointer, not this counter) remains — the counter is
// bookkeeping only and is not exposed outside this package.
func (s *Semaphore) Release() {
	s.mu.Lock()
	s.refs--
	s.mu.Unlock()
}

// Value returns the semaphore's current payload value.
func (s *Semaphore) Value() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Failed reports the semaphore's latched failure, if any.
func (s *Semaphore) Failed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Signal advances the semaphore to value, which must be no less than
// its current value, and resolves every pending timepoint now
// satisfied. It is called from within a task body, so resolving a
// timepoint's completion task happens synchronously on this goroutine
// via the executor's own scheduling — no separate pending-submission
// plumbing is needed because the semaphore already knows which
// executor owns each registered completion task.
func (s *Semaphore) Signal(value uint64) error {
	s.mu.Lock()
	if s.failed != nil {
		err := s.failed
		s.mu.Unlock()
		s.logger.Warn("signal after failure", "semaphore", s.ID, "error", err)
		return fmt.Errorf("semaphore: signal after failure: %w: %w", iree.ErrFailedPrecondition, err)
	}
	if value < s.value {
		s.mu.Unlock()
		s.logger.Warn("signal value regresses", "semaphore", s.ID, "value", value, "current", s.value)
		return fmt.Errorf("semaphore: signal value %d regresses current value %d: %w", value, s.value, iree.ErrInvalidArgument)
	}
	s.value = value

	var ready []*executor.Header
	remaining := s.timepoints[:0]
	for _, tp := range s.timepoints {
		if tp.value <= value {
			ready = append(ready, tp.completion)
		} else {
			remaining = append(remaining, tp)
		}
	}
	s.timepoints = remaining
	s.mu.Unlock()

	s.logger.Debug("semaphore signalled", "semaphore", s.ID, "value", value, "resolved", len(ready))
	for _, h := range ready {
		h.Resolve(nil)
	}
	return nil
}

// Fail latches err on the semaphore: every pending timepoint resolves
// with err immediately, and every future EnqueueTimepoint call fails
// the same way instead of ever being satisfied.
func (s *Semaphore) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.failed != nil {
		s.mu.Unlock()
		return
	}
	s.failed = err
	ready := s.timepoints
	s.timepoints = nil
	s.mu.Unlock()

	s.logger.Error("semaphore failed", "semaphore", s.ID, "error", err, "pending", len(ready))
	for _, tp := range ready {
		tp.completion.Resolve(err)
	}
}

// EnqueueTimepoint registers completion to be resolved once the
// semaphore reaches value. If the semaphore already satisfies value
// (same-queue elision: the common case when a batch waits on a
// semaphore it, or an earlier batch on the same queue, just signalled)
// or has already latched a failure, completion resolves synchronously
// before EnqueueTimepoint returns and no wait is ever registered.
//
// Every path — synchronous or deferred — calls completion.AddPending(1)
// before resolving: this is its own predecessor edge into completion,
// separate from the edge SetCompletion(completion) already added for
// the wait task's own body. Without the synchronous paths pairing
// their Resolve with an AddPending, a same-queue-elided or
// already-failed wait would decrement completion's pending count with
// no matching increment, driving it negative and scheduling completion
// a second time once the wait task's own completion edge resolves.
//
// Unlike the collaborator this is modelled on, a timepoint here does
// not need its own arena-allocated node or a pending-submission output
// parameter: it is just a slice entry guarded by the semaphore's own
// mutex, and resolution goes straight through the completion task's
// own executor reference.
func (s *Semaphore) EnqueueTimepoint(value uint64, completion *executor.Header) error {
	s.mu.Lock()
	if s.failed != nil {
		failed := s.failed
		s.mu.Unlock()
		err := fmt.Errorf("semaphore: enqueue timepoint on failed semaphore: %w: %w", iree.ErrFailedPrecondition, failed)
		s.logger.Warn("enqueue timepoint on failed semaphore", "semaphore", s.ID, "task", completion.ID, "error", failed)
		completion.AddPending(1)
		completion.Resolve(err)
		return err
	}
	if s.value >= value {
		s.mu.Unlock()
		completion.AddPending(1)
		completion.Resolve(nil)
		return nil
	}
	completion.AddPending(1)
	s.timepoints = append(s.timepoints, timepoint{value: value, completion: completion})
	s.mu.Unlock()
	return nil
}
