package agent

import (
	"context"
	"fmt"

	"github.com/musegen/muse/internal/metrics"
	"github.com/musegen/muse/internal/workers"
	"github.com/musegen/muse/pkg/faults"
)

// runOutcome is the retry runner's verdict on one stage-level worker run.
type runOutcome struct {
	Completed bool
	Output    workers.Output
	Metadata  workers.Metadata
	Err       string
	Fault     faults.Classification
}

// failClosed stands in for a classification when the classifier itself
// failed; it is never retryable.
var failClosed = faults.Classification{
	Type:       faults.TypeUnknown,
	Retryable:  false,
	Suggestion: "Error classification failed; not retrying.",
}

// runWorker invokes w with bounded retry, consulting the classifier
// between attempts. The worker runs at most MaxAttempts times and the
// classifier is called at most MaxAttempts times in total: the final
// classification reuses the last mid-loop verdict whenever the loop
// stopped because of it.
func (rt *Runtime) runWorker(ctx context.Context, w workers.Worker, in workers.Input, tag string) runOutcome {
	maxAttempts := rt.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	if !w.ValidateInput(in) {
		msg := fmt.Sprintf("invalid input for worker %s", w.Name())
		rt.Logger.WarnContext(ctx, "worker input rejected", "worker", tag)
		return runOutcome{
			Err:   msg,
			Fault: rt.finalVerdict(msg, tag, nil, false),
		}
	}

	var (
		lastErr          string
		lastVerdict      *faults.Classification
		classifierFailed bool
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		rt.Logger.InfoContext(
			ctx, "worker attempt",
			"worker", tag,
			"attempt", attempt,
			"max_attempts", maxAttempts,
		)

		result := invoke(ctx, w, in)
		if result.Success {
			rt.Logger.InfoContext(ctx, "worker succeeded", "worker", tag, "attempt", attempt)
			return runOutcome{
				Completed: true,
				Output:    result.Output,
				Metadata:  result.Metadata,
			}
		}

		lastErr = result.Error
		rt.Logger.WarnContext(ctx, "worker failed", "worker", tag, "error", lastErr)

		if attempt == maxAttempts {
			break
		}

		verdict, err := rt.Classifier.Classify(lastErr, tag)
		if err != nil {
			rt.Logger.ErrorContext(ctx, "error classification failed", "worker", tag, "error", err)
			classifierFailed = true
			break
		}
		lastVerdict = &verdict

		if !verdict.Retryable {
			rt.Logger.InfoContext(ctx, "error not retryable", "worker", tag, "fault_type", verdict.Type)
			break
		}

		metrics.RetryAttempts.WithLabelValues(tag).Inc()
		rt.Logger.InfoContext(
			ctx, "retrying worker",
			"worker", tag,
			"delay", verdict.RetryDelay,
			"suggestion", verdict.Suggestion,
		)

		if err := rt.sleep(ctx, verdict.RetryDelay); err != nil {
			break
		}
	}

	return runOutcome{
		Err:   lastErr,
		Fault: rt.finalVerdict(lastErr, tag, lastVerdict, classifierFailed),
	}
}

// finalVerdict produces the classification attached to a failed outcome.
// A cached non-retryable verdict is reused to avoid a redundant duplicate
// classifier call; otherwise the last recorded error is classified once
// more.
func (rt *Runtime) finalVerdict(
	lastErr, tag string,
	cached *faults.Classification,
	classifierFailed bool,
) faults.Classification {
	if classifierFailed {
		return failClosed
	}
	if cached != nil && !cached.Retryable {
		return *cached
	}

	verdict, err := rt.Classifier.Classify(lastErr, tag)
	if err != nil {
		return failClosed
	}
	return verdict
}

// invoke calls w.Process, converting a panic into an operational failure
// with the panic value as the error text.
func invoke(ctx context.Context, w workers.Worker, in workers.Input) (result workers.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = workers.Result{Error: fmt.Sprint(r)}
		}
	}()
	return w.Process(ctx, in)
}
