// Package iree provides the task queue core of a hardware-abstraction
// layer: a per-queue submission pipeline that turns batches of wait
// semaphores, command buffers, and signal semaphores into a small DAG
// of tasks run under a work-stealing executor.
//
// # Quick Start
//
//	exec := executor.New(executor.WithWorkers(4))
//	pool := arena.NewBlockPool(4096)
//	q, err := queue.New("gpu0", exec, pool, nil)
//	err = q.Submit(queue.Batch{
//	    Commands: []command.Buffer{myCommandBuffer},
//	    Signal:   []queue.SemaphoreValue{{Semaphore: done, Value: 1}},
//	})
//	err = q.WaitIdle(context.Background())
//
// A Config covers the same executor/pool construction for callers that
// prefer a single set of defaults:
//
//	cfg := iree.DefaultConfig()
//	exec := cfg.NewExecutor()
//	pool := cfg.NewBlockPool()
//
// # Architecture
//
// The queue package owns the submission algorithm (spec §4 in
// SPEC_FULL.md): each batch becomes a WaitCmd → IssueCmd → RetireCmd
// chain allocated from a per-submission arena, with successive
// IssueCmds on one queue stitched together so issuing stays FIFO.
// executor, semaphore, arena, scope, and command are the collaborators
// the queue core drives but does not itself implement the internals of.
//
// All trace-correlated entity IDs use TypeID — type-prefixed,
// K-sortable, UUIDv7-based identifiers (see the id package).
package iree
