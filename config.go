package iree

import (
	"context"
	"time"

	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/executor"
)

// Config holds the defaults new queues and executors are built with when
// callers don't override them with functional options.
type Config struct {
	// Workers is the number of worker goroutines the executor runs.
	Workers int

	// BlockSize is the size in bytes of each block handed out by an
	// arena's block pool.
	BlockSize int

	// ShutdownTimeout is the timeout ShutdownContext applies to the
	// context it derives.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         4,
		BlockSize:       4096,
		ShutdownTimeout: 30 * time.Second,
	}
}

// NewExecutor builds an Executor sized per c, with extra applied after
// the config-derived defaults so callers can still override them.
func (c Config) NewExecutor(extra ...executor.Option) *executor.Executor {
	opts := append([]executor.Option{executor.WithWorkers(c.Workers)}, extra...)
	return executor.New(opts...)
}

// NewBlockPool builds a BlockPool sized per c.
func (c Config) NewBlockPool() *arena.BlockPool {
	return arena.NewBlockPool(c.BlockSize)
}

// ShutdownContext derives a context bounded by c.ShutdownTimeout from
// parent, for callers that want Queue.Close/WaitIdle to give up after
// the configured default rather than blocking indefinitely.
func (c Config) ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.ShutdownTimeout)
}
