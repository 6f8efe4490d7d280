package queue

import (
	"context"
	"fmt"

	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/command"
	"github.com/julianwa/iree/executor"
)

// issueCmd walks a batch's command-buffer list and asks each buffer to
// enqueue its own work, wired to complete into the batch's retire
// task. It is not itself the terminal point of the commands' work —
// only of having asked every command buffer to start.
type issueCmd struct {
	header   *executor.Header
	queue    *Queue
	retire   *executor.Header
	ar       *arena.Arena
	commands []command.Buffer
}

// newIssueCmd allocates an IssueCmd from ar, copying commands in
// submission order, and wires its completion to retire.
func newIssueCmd(q *Queue, ar *arena.Arena, retire *executor.Header, commands []command.Buffer) *issueCmd {
	issue := arena.Allocate[issueCmd](ar)
	issue.queue = q
	issue.retire = retire
	issue.ar = ar
	issue.commands = append([]command.Buffer(nil), commands...)
	issue.header = q.exec.NewTask(issue.run)
	issue.header.SetCompletion(retire)
	return issue
}

// run calls Issue on every command buffer in order, passing retire
// (not issue's own header) as the completion every sub-DAG the buffer
// creates should converge on. An empty command list is legal — it
// models a synchronization-only submission.
func (c *issueCmd) run(pending *executor.Submission) error {
	for i, cb := range c.commands {
		if err := cb.Issue(context.Background(), c.queue.state, c.retire, c.ar, pending); err != nil {
			return fmt.Errorf("issue: command %d: %w", i, err)
		}
	}
	return nil
}

// cleanup clears the queue's tail-issue pointer if it still points at
// this task, preventing a later submission from chaining onto a task
// whose memory the submission's eventual retire may reclaim.
func (c *issueCmd) cleanup(error) {
	c.queue.mu.Lock()
	if c.queue.tailIssue == c.header {
		c.queue.tailIssue = nil
	}
	c.queue.mu.Unlock()
}
