package agent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/musegen/muse/internal/metrics"
	"github.com/musegen/muse/workflow"
)

// Request is the caller's input to a workflow execution.
type Request struct {
	RequestID  string
	UserPrompt string
	// Modalities, when non-empty, overrides the parser's keyword
	// detection.
	Modalities []workflow.Modality
}

// Execute runs the content-generation graph for a single request:
//
//	ParseRequest -> PromptEnhancer -> {Audio, Image} -> Description -> END
//
// The audio and image branches run concurrently against the same state
// snapshot; their patches join at a single synchronization point before
// the description gate is evaluated. Operational worker failures are
// contained in their branch and reported through the state's error list;
// only cross-stage contract violations return an error, aborting the
// whole request.
func (rt *Runtime) Execute(ctx context.Context, req Request) (workflow.OverallState, error) {
	state := workflow.OverallState{
		RequestID:  req.RequestID,
		UserPrompt: req.UserPrompt,
		Status:     workflow.StatusPending,
	}

	patch, err := parseRequestNode(state, req.Modalities)
	if err != nil {
		return workflow.OverallState{}, err
	}
	state.Apply(patch)

	rt.Logger.InfoContext(
		ctx, "request parsed",
		"request_id", state.RequestID,
		"modalities", state.RequestedModalities,
	)

	patch, err = rt.promptEnhancerNode(ctx, state)
	if err != nil {
		return workflow.OverallState{}, err
	}
	state.Apply(patch)

	// An enhancement failure leaves no prompt for the branches to work
	// from, so the rest of the graph is skipped and the run finalizes
	// with the accumulated errors.
	if state.EnhancedPrompt == "" {
		finalize(&state)
		metrics.RequestsTotal.WithLabelValues(string(state.Status)).Inc()
		rt.Logger.WarnContext(
			ctx, "workflow aborted after enhancement",
			"request_id", state.RequestID,
			"status", state.Status,
		)
		return state, nil
	}

	// Both branches read the post-enhancement snapshot and write only
	// their own fields, so the copies never race.
	snapshot := state

	var audioPatch, imagePatch workflow.Patch
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		audioPatch, err = rt.audioNode(gctx, snapshot)
		return err
	})
	g.Go(func() error {
		var err error
		imagePatch, err = rt.imageNode(gctx, snapshot)
		return err
	})
	if err := g.Wait(); err != nil {
		return workflow.OverallState{}, err
	}
	state.Apply(workflow.MergePatches(audioPatch, imagePatch))

	patch, err = rt.descriptionNode(ctx, state)
	if err != nil {
		return workflow.OverallState{}, err
	}
	state.Apply(patch)

	finalize(&state)
	metrics.RequestsTotal.WithLabelValues(string(state.Status)).Inc()

	rt.Logger.InfoContext(
		ctx, "workflow complete",
		"request_id", state.RequestID,
		"status", state.Status,
		"errors", len(state.Errors),
	)

	return state, nil
}

// finalize derives the request's terminal status exactly once, after the
// last node has contributed: completed when no branch reported an error,
// partial when errors accumulated but at least one output was produced,
// failed otherwise. A run whose branches were all skipped finishes
// completed with nothing generated.
func finalize(st *workflow.OverallState) {
	if len(st.Errors) == 0 {
		st.Status = workflow.StatusCompleted
		return
	}
	if st.AudioPath != "" || st.ImagePath != "" || st.VideoPath != "" || st.Description != "" {
		st.Status = workflow.StatusPartial
		return
	}
	st.Status = workflow.StatusFailed
}
