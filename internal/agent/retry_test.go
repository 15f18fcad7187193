package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/musegen/muse/internal/workers"
	"github.com/musegen/muse/pkg/faults"
)

type scriptedWorker struct {
	name      string
	valid     bool
	results   []workers.Result
	calls     int
	lastInput workers.Input
}

func (w *scriptedWorker) Name() string { return w.name }

func (w *scriptedWorker) ValidateInput(in workers.Input) bool { return w.valid }

func (w *scriptedWorker) Process(_ context.Context, in workers.Input) workers.Result {
	w.calls++
	w.lastInput = in
	if w.calls <= len(w.results) {
		return w.results[w.calls-1]
	}
	return w.results[len(w.results)-1]
}

type panicWorker struct {
	calls int
}

func (w *panicWorker) Name() string { return "panic_worker" }

func (w *panicWorker) ValidateInput(workers.Input) bool { return true }

func (w *panicWorker) Process(context.Context, workers.Input) workers.Result {
	w.calls++
	panic("nil pointer dereference in backend")
}

type countingClassifier struct {
	calls int
	err   error
}

func (c *countingClassifier) Classify(message, context string) (faults.Classification, error) {
	c.calls++
	if c.err != nil {
		return faults.Classification{}, c.err
	}
	return faults.Classify(message, context), nil
}

func testRuntime(classifier faults.Classifier, maxAttempts int, slept *[]time.Duration) *Runtime {
	return &Runtime{
		Classifier:  classifier,
		MaxAttempts: maxAttempts,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sleep: func(_ context.Context, d time.Duration) error {
			if slept != nil {
				*slept = append(*slept, d)
			}
			return nil
		},
	}
}

func TestRunWorkerFirstAttemptSuccess(t *testing.T) {
	w := &scriptedWorker{
		name:    "w",
		valid:   true,
		results: []workers.Result{{Success: true, Output: workers.Output{AudioPath: "a.mp3"}}},
	}
	cl := &countingClassifier{}
	rt := testRuntime(cl, 3, nil)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "audio")

	if !out.Completed {
		t.Fatal("outcome not completed")
	}
	if w.calls != 1 {
		t.Errorf("worker calls = %d, want 1", w.calls)
	}
	if cl.calls != 0 {
		t.Errorf("classifier calls = %d, want 0", cl.calls)
	}
}

func TestRunWorkerRetryThenSuccess(t *testing.T) {
	w := &scriptedWorker{
		name:  "w",
		valid: true,
		results: []workers.Result{
			{Error: "connection refused"},
			{Success: true, Output: workers.Output{ImagePath: "i.png"}},
		},
	}
	cl := &countingClassifier{}
	var slept []time.Duration
	rt := testRuntime(cl, 3, &slept)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "image")

	if !out.Completed {
		t.Fatal("outcome not completed")
	}
	if w.calls != 2 {
		t.Errorf("worker calls = %d, want 2", w.calls)
	}
	if cl.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", cl.calls)
	}
	if len(slept) != 1 || slept[0] != 5*time.Second {
		t.Errorf("slept = %v, want one 5s delay", slept)
	}
}

func TestRunWorkerTwoFailuresThenSuccess(t *testing.T) {
	w := &scriptedWorker{
		name:  "w",
		valid: true,
		results: []workers.Result{
			{Error: "connection timeout"},
			{Error: "connection timeout"},
			{Success: true, Output: workers.Output{AudioPath: "a.mp3"}},
		},
	}
	cl := &countingClassifier{}
	var slept []time.Duration
	rt := testRuntime(cl, 3, &slept)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "audio")

	if !out.Completed {
		t.Fatal("outcome not completed")
	}
	if w.calls != 3 {
		t.Errorf("worker calls = %d, want 3", w.calls)
	}
	if cl.calls != 2 {
		t.Errorf("classifier calls = %d, want 2", cl.calls)
	}
	if len(slept) != 2 || slept[0] != 5*time.Second || slept[1] != 5*time.Second {
		t.Errorf("slept = %v, want two 5s delays", slept)
	}
}

func TestRunWorkerExhaustsAttempts(t *testing.T) {
	w := &scriptedWorker{
		name:    "w",
		valid:   true,
		results: []workers.Result{{Error: "request timeout"}},
	}
	cl := &countingClassifier{}
	var slept []time.Duration
	rt := testRuntime(cl, 3, &slept)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "audio")

	if out.Completed {
		t.Fatal("outcome completed, want failure")
	}
	if w.calls != 3 {
		t.Errorf("worker calls = %d, want 3", w.calls)
	}
	// Two mid-loop classifications plus the final verdict.
	if cl.calls != 3 {
		t.Errorf("classifier calls = %d, want 3", cl.calls)
	}
	if len(slept) != 2 {
		t.Errorf("sleep count = %d, want 2", len(slept))
	}
	if out.Fault.Type != faults.TypeNetwork {
		t.Errorf("fault type = %q, want network", out.Fault.Type)
	}
}

func TestRunWorkerNonRetryableStopsEarly(t *testing.T) {
	w := &scriptedWorker{
		name:    "w",
		valid:   true,
		results: []workers.Result{{Error: "invalid request payload"}},
	}
	cl := &countingClassifier{}
	var slept []time.Duration
	rt := testRuntime(cl, 3, &slept)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "prompt")

	if out.Completed {
		t.Fatal("outcome completed, want failure")
	}
	if w.calls != 1 {
		t.Errorf("worker calls = %d, want 1", w.calls)
	}
	// The mid-loop verdict is cached and reused for the final verdict.
	if cl.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", cl.calls)
	}
	if len(slept) != 0 {
		t.Errorf("slept %v, want no sleeps", slept)
	}
	if out.Fault.Retryable {
		t.Error("fault marked retryable")
	}
}

func TestRunWorkerClassifierErrorFailsClosed(t *testing.T) {
	w := &scriptedWorker{
		name:    "w",
		valid:   true,
		results: []workers.Result{{Error: "request timeout"}},
	}
	cl := &countingClassifier{err: errors.New("classifier offline")}
	rt := testRuntime(cl, 3, nil)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "audio")

	if out.Completed {
		t.Fatal("outcome completed, want failure")
	}
	if w.calls != 1 {
		t.Errorf("worker calls = %d, want 1", w.calls)
	}
	if out.Fault.Retryable {
		t.Error("fail-closed verdict marked retryable")
	}
	if out.Fault.Type != faults.TypeUnknown {
		t.Errorf("fault type = %q, want unknown", out.Fault.Type)
	}
}

func TestRunWorkerRecoversPanic(t *testing.T) {
	w := &panicWorker{}
	cl := &countingClassifier{}
	rt := testRuntime(cl, 1, nil)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "image")

	if out.Completed {
		t.Fatal("outcome completed, want failure")
	}
	if w.calls != 1 {
		t.Errorf("worker calls = %d, want 1", w.calls)
	}
	if !strings.Contains(out.Err, "nil pointer dereference") {
		t.Errorf("Err = %q, want panic text", out.Err)
	}
}

func TestRunWorkerRejectsInvalidInput(t *testing.T) {
	w := &scriptedWorker{
		name:    "w",
		valid:   false,
		results: []workers.Result{{Success: true}},
	}
	cl := &countingClassifier{}
	rt := testRuntime(cl, 3, nil)

	out := rt.runWorker(context.Background(), w, workers.Input{}, "audio")

	if out.Completed {
		t.Fatal("outcome completed, want failure")
	}
	if w.calls != 0 {
		t.Errorf("worker calls = %d, want 0", w.calls)
	}
	if out.Fault.Type != faults.TypeValidation {
		t.Errorf("fault type = %q, want validation", out.Fault.Type)
	}
	if out.Fault.Retryable {
		t.Error("validation fault marked retryable")
	}
}
