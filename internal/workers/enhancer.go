package workers

import (
	"context"
	"fmt"

	"github.com/musegen/muse/internal/generate"
	"github.com/musegen/muse/pkg/formatting"
)

type enhanceResponse struct {
	EnhancedPrompt string `json:"enhanced_prompt"`
	MainStatement  string `json:"main_statement"`
	Style          string `json:"style"`
	Mood           string `json:"mood"`
}

// PromptEnhancer turns a raw user prompt into an enhanced prompt plus a
// one-sentence main statement via a single text completion.
type PromptEnhancer struct {
	text  generate.TextBackend
	model string
}

// NewPromptEnhancer creates a PromptEnhancer. The model name is carried
// into result metadata only; backend selection happens at startup.
func NewPromptEnhancer(text generate.TextBackend, model string) *PromptEnhancer {
	return &PromptEnhancer{text: text, model: model}
}

// Name implements Worker.
func (w *PromptEnhancer) Name() string { return "prompt_enhancer" }

// ValidateInput implements Worker.
func (w *PromptEnhancer) ValidateInput(in Input) bool {
	return in.UserPrompt != ""
}

// Process implements Worker.
func (w *PromptEnhancer) Process(ctx context.Context, in Input) Result {
	content, err := w.text.Generate(
		ctx,
		promptEnhancerSystem,
		fmt.Sprintf("User request: %s", in.UserPrompt),
	)
	if err != nil {
		return failure("enhance prompt: %v", err)
	}

	parsed, err := formatting.Parse[enhanceResponse](content)
	if err != nil {
		return failure("enhance prompt: %v", err)
	}
	if parsed.EnhancedPrompt == "" {
		return failure("enhance prompt: model returned an empty response")
	}

	return Result{
		Success: true,
		Output: Output{
			EnhancedPrompt: parsed.EnhancedPrompt,
			MainStatement:  parsed.MainStatement,
			Style:          parsed.Style,
			Mood:           parsed.Mood,
		},
		Metadata: Metadata{Model: w.model},
	}
}
