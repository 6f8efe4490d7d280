// Package executor implements a small work-stealing task executor: a
// fixed pool of worker goroutines, each with its own local deque, that
// run Header-wired task DAGs to completion and propagate failures
// along completion edges instead of stopping the world.
//
// It is the collaborator the queue package hands submitted command
// buffers to; everything here is domain-agnostic — it knows nothing
// about semaphores, command buffers, or queues.
package executor

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianwa/iree/scope"
)

const defaultStealBackoff = 500 * time.Microsecond

// Option configures an Executor constructed with New.
type Option func(*Executor)

// WithWorkers sets the number of worker goroutines. The default is 4.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.numWorkers = n
		}
	}
}

// WithLogger overrides the executor's logger. The default discards
// all output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStealBackoff overrides how long an idle worker sleeps between
// scan attempts before checking for new work again. Exposed mainly so
// tests can tighten it.
func WithStealBackoff(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.stealBackoff = d
		}
	}
}

// Executor runs task DAGs submitted to it across a fixed pool of
// worker goroutines using work stealing: a worker with an empty local
// deque scans its siblings' deques before backing off.
type Executor struct {
	numWorkers   int
	stealBackoff time.Duration
	logger       *slog.Logger

	deques []*deque
	rr     atomic.Uint64

	refs atomic.Int32

	stopCh chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// New creates an Executor and starts its worker goroutines immediately.
func New(opts ...Option) *Executor {
	e := &Executor{
		numWorkers:   4,
		stealBackoff: defaultStealBackoff,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.refs.Store(1)

	e.deques = make([]*deque, e.numWorkers)
	for i := range e.deques {
		e.deques[i] = &deque{}
	}

	e.logger.Info("executor starting", "workers", e.numWorkers)
	e.wg.Add(e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(i)
	}
	return e
}

// NewTask allocates a task owned by this executor with the given body.
// body may be nil for tasks that only serve as a completion target.
func (e *Executor) NewTask(body TaskFunc) *Header {
	return newHeader(e, body)
}

// Retain increments the executor's reference count. Queues sharing one
// executor call this on construction. The count is bookkeeping only:
// Close does not consult it.
func (e *Executor) Retain() {
	e.refs.Add(1)
}

// Release decrements the executor's reference count. It does not stop
// worker goroutines itself — callers that want a hard shutdown call
// Close explicitly once they know every owner is done.
func (e *Executor) Release() {
	e.refs.Add(-1)
}

// AcquireFence returns a Fence whose Wait unblocks once every task
// chained into it (via its Header's completion edge) has resolved.
// The fence registers itself with s for the duration so a concurrent
// scope.WaitIdle accounts for it.
func (e *Executor) AcquireFence(s *scope.TaskScope) *Fence {
	f := &Fence{done: make(chan struct{})}
	f.Header = e.NewTask(nil)

	s.Register()
	f.Header.Cleanup = func(err error) {
		f.err = err
		s.Unregister()
		close(f.done)
	}
	return f
}

// Submit schedules every task accumulated in sub. Tasks with
// outstanding predecessors should never be enqueued into a Submission
// in the first place; Submit assumes every entry is ready to run.
func (e *Executor) Submit(sub *Submission) {
	if sub == nil {
		return
	}
	for _, h := range sub.ready {
		e.schedule(h)
	}
}

// Flush is a no-op: schedule already makes tasks visible to worker
// goroutines the moment they're enqueued. It exists so callers that
// batch several Submit calls together have an explicit point to call
// once they're done, matching the shape of systems where scheduling
// and visibility are decoupled.
func (e *Executor) Flush() {}

// Close stops every worker goroutine and waits for in-flight tasks to
// finish running. Tasks still queued but never started are abandoned.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.logger.Info("executor stopping")
		close(e.stopCh)
	})
	e.wg.Wait()
	e.logger.Info("executor stopped")
}

func (e *Executor) schedule(h *Header) {
	idx := int(e.rr.Add(1)-1) % len(e.deques)
	e.deques[idx].pushBack(h)
}

func (e *Executor) worker(idx int) {
	defer e.wg.Done()
	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		if h := e.deques[idx].popBack(); h != nil {
			e.run(h)
			continue
		}

		if h := e.steal(idx); h != nil {
			e.run(h)
			continue
		}

		select {
		case <-e.stopCh:
			return
		case <-time.After(e.stealBackoff):
		}
	}
}

func (e *Executor) steal(idx int) *Header {
	n := len(e.deques)
	for j := 1; j < n; j++ {
		victim := (idx + j) % n
		if h := e.deques[victim].popFront(); h != nil {
			e.logger.Debug("stole task", "worker", idx, "victim", victim, "task", h.ID)
			return h
		}
	}
	return nil
}

func (e *Executor) run(h *Header) {
	h.mu.Lock()
	status := h.err
	h.mu.Unlock()

	var sub *Submission
	if status == nil && h.body != nil {
		sub = NewSubmission()
		if err := h.body(sub); err != nil {
			status = err
			e.logger.Error("task failed", "task", h.ID, "error", err)
		}
	}

	if h.Cleanup != nil {
		h.Cleanup(status)
	}

	if sub != nil {
		e.Submit(sub)
	}

	for _, c := range h.completions {
		c.resolve(status)
	}
}

// deque is a simple mutex-guarded double-ended queue of ready tasks.
// schedule pushes onto the back from any goroutine; the owning worker
// pops from the back (LIFO, cheap on
// cache locality); thieves pop from the front (FIFO, so they steal the
// oldest work rather than racing the owner for the newest).
type deque struct {
	mu    sync.Mutex
	items []*Header
}

func (d *deque) pushBack(h *Header) {
	d.mu.Lock()
	d.items = append(d.items, h)
	d.mu.Unlock()
}

func (d *deque) popBack() *Header {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.items)
	if n == 0 {
		return nil
	}
	h := d.items[n-1]
	d.items = d.items[:n-1]
	return h
}

func (d *deque) popFront() *Header {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil
	}
	h := d.items[0]
	d.items = d.items[1:]
	return h
}
