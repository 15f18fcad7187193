package agent

import (
	"context"
	"fmt"

	"github.com/musegen/muse/workflow"
)

// parseRequestNode is the graph entry node. An absent user prompt is a
// contract violation, not a worker error, so it aborts the request.
func parseRequestNode(st workflow.OverallState, override []workflow.Modality) (workflow.Patch, error) {
	if st.UserPrompt == "" {
		return workflow.Patch{}, fmt.Errorf("parse request: %w", workflow.ErrUserPromptRequired)
	}

	parsed := workflow.ParseRequest(st.UserPrompt)
	modalities := parsed.RequestedModalities
	if len(override) > 0 {
		modalities = override
	}

	return workflow.Patch{
		UserPrompt:          &parsed.Prompt,
		RequestedModalities: modalities,
		Status:              workflow.StatusRunning,
	}, nil
}

// promptEnhancerNode projects the overall state into the enhancement
// stage's view and merges its patch back. Operational failures surface as
// appended errors, never as a returned error.
func (rt *Runtime) promptEnhancerNode(ctx context.Context, st workflow.OverallState) (workflow.Patch, error) {
	if st.UserPrompt == "" {
		return workflow.Patch{}, fmt.Errorf("prompt enhancer: %w", workflow.ErrUserPromptRequired)
	}

	patch := rt.runEnhancerStage(ctx, workflow.PromptEnhancerState{
		InputPrompt: st.UserPrompt,
	})
	if patch.Failed() {
		return workflow.Patch{Errors: patch.Errors}, nil
	}

	return workflow.Patch{
		EnhancedPrompt: &patch.EnhancedPrompt,
		MainStatement:  &patch.MainStatement,
	}, nil
}

// audioNode returns an empty patch when audio was not requested; that is
// a skip, not a failure, and never blocks downstream readiness. A missing
// enhanced prompt at this point means the enhancer never ran, which is
// fatal.
func (rt *Runtime) audioNode(ctx context.Context, st workflow.OverallState) (workflow.Patch, error) {
	if !st.Requested(workflow.ModalityAudio) {
		return workflow.Patch{}, nil
	}
	if st.EnhancedPrompt == "" {
		return workflow.Patch{}, fmt.Errorf("audio stage: %w", workflow.ErrEnhancedPromptRequired)
	}

	patch := rt.runAudioStage(ctx, workflow.AudioState{
		Script:        st.EnhancedPrompt,
		MainStatement: st.MainStatement,
		Voice:         rt.Voice,
	})
	if patch.Failed() {
		return workflow.Patch{Errors: patch.Errors}, nil
	}

	return workflow.Patch{AudioPath: &patch.AudioPath}, nil
}

// imageNode is symmetric to audioNode for the image modality.
func (rt *Runtime) imageNode(ctx context.Context, st workflow.OverallState) (workflow.Patch, error) {
	if !st.Requested(workflow.ModalityImage) {
		return workflow.Patch{}, nil
	}
	if st.EnhancedPrompt == "" {
		return workflow.Patch{}, fmt.Errorf("image stage: %w", workflow.ErrEnhancedPromptRequired)
	}

	patch := rt.runImageStage(ctx, workflow.ImageState{
		Prompt: st.EnhancedPrompt,
		Style:  rt.Style,
	})
	if patch.Failed() {
		return workflow.Patch{Errors: patch.Errors}, nil
	}

	return workflow.Patch{ImagePath: &patch.ImagePath}, nil
}

// descriptionNode fires only when the readiness gate passes; otherwise it
// contributes an empty patch. On success it writes the terminal completed
// status alongside the description copy.
func (rt *Runtime) descriptionNode(ctx context.Context, st workflow.OverallState) (workflow.Patch, error) {
	if !descriptionReady(&st) {
		return workflow.Patch{}, nil
	}
	if st.EnhancedPrompt == "" {
		return workflow.Patch{}, fmt.Errorf("description stage: %w", workflow.ErrEnhancedPromptRequired)
	}

	patch := rt.runDescriptionStage(ctx, workflow.DescriptionState{
		Prompt: st.EnhancedPrompt,
		Assets: st.Assets(),
	})
	if patch.Failed() {
		return workflow.Patch{Errors: patch.Errors}, nil
	}

	return workflow.Patch{
		Description: &patch.Description,
		Hashtags:    patch.Hashtags,
		Status:      workflow.StatusCompleted,
	}, nil
}

// descriptionReady implements the readiness gate: the description is
// computed at most once; only requested modalities that actually have a
// worker gate it; and every gating asset path must be populated at the
// same time. When nothing gates it there is also nothing to describe, so
// the stage is skipped entirely.
func descriptionReady(st *workflow.OverallState) bool {
	if st.Description != "" {
		return false
	}

	required := st.RequiredAssets()
	if len(required) == 0 {
		return false
	}

	for _, m := range required {
		if st.AssetPath(m) == "" {
			return false
		}
	}
	return true
}
