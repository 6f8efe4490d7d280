package executor

// Submission accumulates tasks a body deems ready to run right now —
// either new root tasks with no predecessors, or tasks whose last
// predecessor edge it just resolved synchronously. The executor drains
// a Submission once the body that populated it returns.
type Submission struct {
	ready []*Header
}

// NewSubmission returns an empty Submission.
func NewSubmission() *Submission {
	return &Submission{}
}

// Enqueue marks h ready to run. Callers must only enqueue tasks with no
// outstanding predecessors; a task that has predecessors wired into it
// via SetCompletion is scheduled by the executor once the last of them
// resolves, and must not be enqueued as well.
func (s *Submission) Enqueue(h *Header) {
	s.ready = append(s.ready, h)
}

// Len reports how many tasks are queued for scheduling.
func (s *Submission) Len() int {
	return len(s.ready)
}
