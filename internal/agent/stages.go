package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/musegen/muse/internal/metrics"
	"github.com/musegen/muse/internal/workers"
	"github.com/musegen/muse/workflow"
)

// Stage context tags, used for retry classification, logging, and metric
// labels.
const (
	stagePrompt      = "prompt"
	stageAudio       = "audio"
	stageImage       = "image"
	stageDescription = "description"
)

// runEnhancerStage validates the stage-local input, runs the prompt
// enhancement worker under the retry runner, and maps its output into the
// stage patch vocabulary.
func (rt *Runtime) runEnhancerStage(ctx context.Context, st workflow.PromptEnhancerState) workflow.StagePatch {
	if st.InputPrompt == "" {
		return missingFieldPatch("input_prompt")
	}

	out := rt.runStage(ctx, stagePrompt, rt.Enhancer, workers.Input{
		UserPrompt: st.InputPrompt,
	})
	if !out.Completed {
		return failedPatch(out)
	}

	return workflow.StagePatch{
		Status:         workflow.StatusCompleted,
		EnhancedPrompt: out.Output.EnhancedPrompt,
		MainStatement:  out.Output.MainStatement,
	}
}

// runAudioStage renames the stage's script field into the worker's
// enhanced-prompt input and maps the produced artifact path back.
func (rt *Runtime) runAudioStage(ctx context.Context, st workflow.AudioState) workflow.StagePatch {
	if st.Script == "" {
		return missingFieldPatch("script")
	}

	out := rt.runStage(ctx, stageAudio, rt.Audio, workers.Input{
		EnhancedPrompt: st.Script,
		MainStatement:  st.MainStatement,
		Voice:          st.Voice,
	})
	if !out.Completed {
		return failedPatch(out)
	}

	return workflow.StagePatch{
		Status:    workflow.StatusCompleted,
		AudioPath: out.Output.AudioPath,
	}
}

func (rt *Runtime) runImageStage(ctx context.Context, st workflow.ImageState) workflow.StagePatch {
	if st.Prompt == "" {
		return missingFieldPatch("prompt")
	}

	out := rt.runStage(ctx, stageImage, rt.Image, workers.Input{
		EnhancedPrompt: st.Prompt,
		Style:          st.Style,
	})
	if !out.Completed {
		return failedPatch(out)
	}

	return workflow.StagePatch{
		Status:    workflow.StatusCompleted,
		ImagePath: out.Output.ImagePath,
	}
}

func (rt *Runtime) runDescriptionStage(ctx context.Context, st workflow.DescriptionState) workflow.StagePatch {
	if st.Prompt == "" {
		return missingFieldPatch("prompt")
	}

	out := rt.runStage(ctx, stageDescription, rt.Description, workers.Input{
		EnhancedPrompt: st.Prompt,
		Assets:         st.Assets,
	})
	if !out.Completed {
		return failedPatch(out)
	}

	return workflow.StagePatch{
		Status:      workflow.StatusCompleted,
		Description: out.Output.Description,
		Hashtags:    out.Output.Hashtags,
	}
}

// runStage wraps the retry runner with stage-level instrumentation.
func (rt *Runtime) runStage(ctx context.Context, stage string, w workers.Worker, in workers.Input) runOutcome {
	start := time.Now()
	out := rt.runWorker(ctx, w, in, stage)
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	if !out.Completed {
		metrics.StageFailures.WithLabelValues(stage, string(out.Fault.Type)).Inc()
	}
	return out
}

// missingFieldPatch reports a stage-local validation failure without
// invoking any worker.
func missingFieldPatch(field string) workflow.StagePatch {
	return workflow.StagePatch{
		Status: workflow.StatusFailed,
		Errors: []string{fmt.Sprintf("missing required field: %s", field)},
	}
}

// failedPatch maps a failed run outcome into the stage patch vocabulary,
// preferring the classifier's suggestion over the raw error text.
func failedPatch(out runOutcome) workflow.StagePatch {
	message := out.Fault.Suggestion
	if message == "" {
		message = out.Err
	}
	return workflow.StagePatch{
		Status: workflow.StatusFailed,
		Errors: []string{message},
	}
}
