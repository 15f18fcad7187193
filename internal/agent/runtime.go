// Package agent implements the workflow orchestration core: the stage
// graph over OverallState, the per-stage subgraphs, and the retry runner
// that wraps every worker invocation.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/musegen/muse/internal/workers"
	"github.com/musegen/muse/pkg/faults"
)

// Runtime bundles the dependencies the workflow nodes require. It is
// constructed once at startup from configuration and is read-only
// afterwards.
type Runtime struct {
	Enhancer    workers.Worker
	Audio       workers.Worker
	Image       workers.Worker
	Description workers.Worker

	Classifier  faults.Classifier
	MaxAttempts int
	Logger      *slog.Logger

	// Voice and Style are the configured generation defaults, carried
	// through the stage states so workers see them per request.
	Voice string
	Style string

	// Sleep suspends only the calling branch between retry attempts.
	// Nil selects the context-aware default; tests inject a stub.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (rt *Runtime) sleep(ctx context.Context, d time.Duration) error {
	if rt.Sleep != nil {
		return rt.Sleep(ctx, d)
	}
	return waitFor(ctx, d)
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
