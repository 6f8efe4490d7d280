package queue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	iree "github.com/julianwa/iree"
	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/command"
	"github.com/julianwa/iree/executor"
	"github.com/julianwa/iree/queue"
	"github.com/julianwa/iree/semaphore"
)

func newTestQueue(t *testing.T, name string) (*queue.Queue, *executor.Executor) {
	t.Helper()
	exec := executor.New(executor.WithWorkers(4), executor.WithStealBackoff(time.Millisecond))
	pool := arena.NewBlockPool(512)
	q, err := queue.New(name, exec, pool, nil)
	if err != nil {
		t.Fatalf("queue.New: %v", err)
	}
	t.Cleanup(exec.Close)
	return q, exec
}

func waitIdle(t *testing.T, q *queue.Queue, timeout time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := q.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

// Scenario 1: signal-only.
func TestSubmit_SignalOnly(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	semA := semaphore.New(0)

	if err := q.Submit(queue.Batch{
		Signal: []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitIdle(t, q, time.Second)

	if got := semA.Value(); got != 1 {
		t.Fatalf("expected SemA=1, got %d", got)
	}
}

// Scenario 2: chain, with same-queue elision.
func TestSubmit_ChainWithinQueue(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	semA := semaphore.New(0)
	semB := semaphore.New(0)

	if err := q.Submit(
		queue.Batch{Signal: []queue.SemaphoreValue{{Semaphore: semA, Value: 1}}},
		queue.Batch{
			Wait:   []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
			Signal: []queue.SemaphoreValue{{Semaphore: semB, Value: 1}},
		},
	); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitIdle(t, q, time.Second)

	if got := semB.Value(); got != 1 {
		t.Fatalf("expected SemB=1, got %d", got)
	}
}

// Scenario 3: cross-queue wait.
func TestSubmit_CrossQueueWait(t *testing.T) {
	exec := executor.New(executor.WithWorkers(4), executor.WithStealBackoff(time.Millisecond))
	defer exec.Close()
	pool := arena.NewBlockPool(512)

	q1, err := queue.New("q1", exec, pool, nil)
	if err != nil {
		t.Fatalf("queue.New q1: %v", err)
	}
	q2, err := queue.New("q2", exec, pool, nil)
	if err != nil {
		t.Fatalf("queue.New q2: %v", err)
	}

	semX := semaphore.New(0)
	semY := semaphore.New(0)

	if err := q2.Submit(queue.Batch{
		Wait:   []queue.SemaphoreValue{{Semaphore: semX, Value: 5}},
		Signal: []queue.SemaphoreValue{{Semaphore: semY, Value: 1}},
	}); err != nil {
		t.Fatalf("q2.Submit: %v", err)
	}

	// semY must not advance until q1 signals semX, even though q2's
	// wait was submitted first.
	time.Sleep(10 * time.Millisecond)
	if got := semY.Value(); got != 0 {
		t.Fatalf("expected SemY still 0 before SemX is signalled, got %d", got)
	}

	if err := q1.Submit(queue.Batch{
		Signal: []queue.SemaphoreValue{{Semaphore: semX, Value: 5}},
	}); err != nil {
		t.Fatalf("q1.Submit: %v", err)
	}

	waitIdle(t, q1, time.Second)
	waitIdle(t, q2, time.Second)

	if got := semY.Value(); got != 1 {
		t.Fatalf("expected SemY=1, got %d", got)
	}
}

// Scenario 4: failure propagation.
func TestSubmit_FailurePropagation(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	semA := semaphore.New(0)
	semB := semaphore.New(0)
	boom := errors.New("boom")

	if err := q.Submit(queue.Batch{
		Commands: []command.Buffer{&command.Failing{Err: boom}},
		Signal:   []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
	}); err != nil {
		t.Fatalf("Submit (B1): %v", err)
	}
	if err := q.Submit(queue.Batch{
		Wait:   []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
		Signal: []queue.SemaphoreValue{{Semaphore: semB, Value: 1}},
	}); err != nil {
		t.Fatalf("Submit (B2): %v", err)
	}

	waitIdle(t, q, time.Second)

	if err := semA.Failed(); !errors.Is(err, boom) {
		t.Fatalf("expected SemA failed with %v, got %v", boom, err)
	}
	if err := semB.Failed(); !errors.Is(err, boom) {
		t.Fatalf("expected SemB failed with %v, got %v", boom, err)
	}
}

// Scenario 5: FIFO issue ordering across 100 batches.
func TestSubmit_FIFOIssueOrdering(t *testing.T) {
	q, _ := newTestQueue(t, "q")

	const n = 100
	log, newRecorder := command.NewRecorder()

	batches := make([]queue.Batch, n)
	for i := range batches {
		batches[i] = queue.Batch{
			Commands: []command.Buffer{newRecorder(fmt.Sprintf("%03d", i), false)},
		}
	}

	if err := q.Submit(batches...); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitIdle(t, q, 5*time.Second)

	if len(*log) != n {
		t.Fatalf("expected %d log entries, got %d", n, len(*log))
	}
	for i, name := range *log {
		want := fmt.Sprintf("%03d", i)
		if name != want {
			t.Fatalf("entry %d: expected %q, got %q (full log: %v)", i, want, name, *log)
		}
	}
}

// Scenario 6: wait-idle timeout.
func TestWaitIdle_Timeout(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	semX := semaphore.New(0) // never signalled

	if err := q.Submit(queue.Batch{
		Wait: []queue.SemaphoreValue{{Semaphore: semX, Value: 1}},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := q.WaitIdle(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}

	// The queue must remain usable: once semX is signalled, the batch
	// still pending after the timeout should complete.
	if err := semX.Signal(1); err != nil {
		t.Fatalf("Signal: %v", err)
	}
	waitIdle(t, q, time.Second)
}

// Boundary: empty command-buffer list with non-empty signals.
func TestSubmit_EmptyCommandsStillSignal(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	semA := semaphore.New(0)

	if err := q.Submit(queue.Batch{
		Commands: nil,
		Signal:   []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitIdle(t, q, time.Second)
	if got := semA.Value(); got != 1 {
		t.Fatalf("expected SemA=1, got %d", got)
	}
}

// Boundary: zero batches is a no-op.
func TestSubmit_ZeroBatchesIsNoop(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	if err := q.Submit(); err != nil {
		t.Fatalf("Submit with no batches: %v", err)
	}
	waitIdle(t, q, time.Second)
}

// Boundary: command-buffer leaves converge on retire before signals fire.
func TestSubmit_LeafWorkGatesSignal(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	semA := semaphore.New(0)
	_, newRecorder := command.NewRecorder()

	if err := q.Submit(queue.Batch{
		Commands: []command.Buffer{newRecorder("leafy", true)},
		Signal:   []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitIdle(t, q, time.Second)
	if got := semA.Value(); got != 1 {
		t.Fatalf("expected SemA=1, got %d", got)
	}
}

// Close after submit+wait-idle must see a cleared tail-issue pointer.
func TestClose_AfterWaitIdle(t *testing.T) {
	exec := executor.New(executor.WithWorkers(2), executor.WithStealBackoff(time.Millisecond))
	pool := arena.NewBlockPool(512)
	q, err := queue.New("q", exec, pool, nil)
	if err != nil {
		t.Fatalf("queue.New: %v", err)
	}
	defer exec.Close()

	semA := semaphore.New(0)
	if err := q.Submit(queue.Batch{Signal: []queue.SemaphoreValue{{Semaphore: semA, Value: 1}}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitIdle(t, q, time.Second)

	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// Invalid argument: a nil Semaphore reference in either list must be
// rejected, not panic, and must leave the queue usable afterward.
func TestSubmit_NilSemaphoreIsInvalidArgument(t *testing.T) {
	q, _ := newTestQueue(t, "q")
	semA := semaphore.New(0)

	err := q.Submit(queue.Batch{
		Signal: []queue.SemaphoreValue{{Semaphore: semA, Value: 1}, {Semaphore: nil, Value: 1}},
	})
	if !errors.Is(err, iree.ErrInvalidArgument) {
		t.Fatalf("expected %v, got %v", iree.ErrInvalidArgument, err)
	}
	// The rejected batch must not have signalled semA.
	if got := semA.Value(); got != 0 {
		t.Fatalf("expected SemA untouched at 0, got %d", got)
	}

	err = q.Submit(queue.Batch{
		Wait:   []queue.SemaphoreValue{{Semaphore: nil, Value: 1}},
		Signal: []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
	})
	if !errors.Is(err, iree.ErrInvalidArgument) {
		t.Fatalf("expected %v, got %v", iree.ErrInvalidArgument, err)
	}

	// The queue must still be usable after both rejections.
	if err := q.Submit(queue.Batch{
		Signal: []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
	}); err != nil {
		t.Fatalf("Submit after rejected batches: %v", err)
	}
	waitIdle(t, q, time.Second)
	if got := semA.Value(); got != 1 {
		t.Fatalf("expected SemA=1, got %d", got)
	}
}

// Regression: a batch whose wait is satisfied by same-queue elision
// must resolve its issue task exactly once, not twice (see
// semaphore.EnqueueTimepoint's pending-count note). Run repeatedly
// under race detection to make the timing window likely to hit.
func TestSubmit_ChainWithinQueue_NoDoubleResolve(t *testing.T) {
	for i := 0; i < 20; i++ {
		q, _ := newTestQueue(t, fmt.Sprintf("q%d", i))
		semA := semaphore.New(0)
		semB := semaphore.New(0)

		if err := q.Submit(
			queue.Batch{Signal: []queue.SemaphoreValue{{Semaphore: semA, Value: 1}}},
			queue.Batch{
				Wait:   []queue.SemaphoreValue{{Semaphore: semA, Value: 1}},
				Signal: []queue.SemaphoreValue{{Semaphore: semB, Value: 1}},
			},
		); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		waitIdle(t, q, time.Second)
		if got := semB.Value(); got != 1 {
			t.Fatalf("iteration %d: expected SemB=1, got %d", i, got)
		}
	}
}

// Round-trip: interleaving 50 concurrent submissions from several
// goroutines should still leave every signal semaphore at exactly its
// specified value, regardless of executor scheduling order.
func TestSubmit_ConcurrentSubmittersConverge(t *testing.T) {
	q, _ := newTestQueue(t, "q")

	const n = 50
	sems := make([]*semaphore.Semaphore, n)
	for i := range sems {
		sems[i] = semaphore.New(0)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := q.Submit(queue.Batch{
				Signal: []queue.SemaphoreValue{{Semaphore: sems[i], Value: uint64(i + 1)}},
			}); err != nil {
				t.Errorf("Submit %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	waitIdle(t, q, 5*time.Second)

	for i, s := range sems {
		if got := s.Value(); got != uint64(i+1) {
			t.Fatalf("sem %d: expected %d, got %d", i, i+1, got)
		}
	}
}
