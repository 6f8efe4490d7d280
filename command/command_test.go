package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianwa/iree/arena"
	"github.com/julianwa/iree/command"
	"github.com/julianwa/iree/executor"
)

func TestFunc_AdaptsPlainFunction(t *testing.T) {
	var called bool
	f := command.Func(func(ctx context.Context, state command.QueueState, completion *executor.Header, ar *arena.Arena, pending *executor.Submission) error {
		called = true
		return nil
	})

	var buf command.Buffer = f
	if err := buf.Issue(context.Background(), nil, nil, nil, nil); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !called {
		t.Fatal("expected the wrapped function to run")
	}
}

func TestFailing_AlwaysReturnsItsError(t *testing.T) {
	boom := errors.New("boom")
	f := &command.Failing{Err: boom}
	if err := f.Issue(context.Background(), nil, nil, nil, nil); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestRecording_AppendsToSharedLog(t *testing.T) {
	log, newRecorder := command.NewRecorder()

	a := newRecorder("a", false)
	b := newRecorder("b", false)

	if err := a.Issue(context.Background(), nil, nil, nil, nil); err != nil {
		t.Fatalf("Issue a: %v", err)
	}
	if err := b.Issue(context.Background(), nil, nil, nil, nil); err != nil {
		t.Fatalf("Issue b: %v", err)
	}

	if got := *log; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestRecording_LeafEnqueuesTaskWiredToCompletion(t *testing.T) {
	exec := executor.New(executor.WithWorkers(1))
	defer exec.Close()

	_, newRecorder := command.NewRecorder()
	r := newRecorder("leaf", true)

	done := make(chan struct{})
	completion := exec.NewTask(nil)
	completion.Cleanup = func(error) { close(done) }

	sub := executor.NewSubmission()
	if err := r.Issue(context.Background(), nil, completion, nil, sub); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	exec.Submit(sub)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("leaf task never resolved completion")
	}
}
