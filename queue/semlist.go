package queue

import (
	"fmt"

	iree "github.com/julianwa/iree"
)

// cloneSemaphoreList deep-copies list, retaining each semaphore. The
// clone is a fresh slice; releaseSemaphoreList must be called exactly
// once on it (normally from whichever task's cleanup owns it) to
// balance the retain. It fails with ErrInvalidArgument if any entry
// has a nil Semaphore, releasing whatever it had already retained
// before returning.
func cloneSemaphoreList(list []SemaphoreValue) ([]SemaphoreValue, error) {
	if len(list) == 0 {
		return nil, nil
	}
	clone := make([]SemaphoreValue, len(list))
	for i, sv := range list {
		if sv.Semaphore == nil {
			releaseSemaphoreList(clone[:i])
			return nil, fmt.Errorf("queue: semaphore list entry %d: %w: nil semaphore", i, iree.ErrInvalidArgument)
		}
		sv.Semaphore.Retain()
		clone[i] = sv
	}
	return clone, nil
}

// releaseSemaphoreList releases every semaphore in list once.
func releaseSemaphoreList(list []SemaphoreValue) {
	for _, sv := range list {
		sv.Semaphore.Release()
	}
}
