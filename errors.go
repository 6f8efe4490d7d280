package iree

import "errors"

var (
	// ErrResourceExhausted is reserved for host-level resource limits
	// (e.g. a bounded worker pool or block count) that a future backend
	// might enforce; nothing in this package's GC-backed arena can run
	// out, so nothing here currently returns it.
	ErrResourceExhausted = errors.New("iree: resource exhausted")

	// ErrInvalidArgument covers a nil semaphore reference in a
	// semaphore list, a regressing signal value, and a nil executor or
	// block pool passed to queue.New.
	ErrInvalidArgument = errors.New("iree: invalid argument")

	// ErrFailedPrecondition covers signalling a semaphore that has
	// already latched a failure, and closing a queue whose tail issue
	// task is still wired (a concurrent Submit raced the Close).
	ErrFailedPrecondition = errors.New("iree: failed precondition")
)
