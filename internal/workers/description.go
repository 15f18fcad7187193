package workers

import (
	"context"
	"fmt"
	"strings"

	"github.com/musegen/muse/internal/generate"
	"github.com/musegen/muse/pkg/formatting"
	"github.com/musegen/muse/workflow"
)

type descriptionResponse struct {
	Caption      string   `json:"caption"`
	Description  string   `json:"description"`
	Hashtags     []string `json:"hashtags"`
	CallToAction string   `json:"call_to_action"`
}

// DescriptionWriter produces social-media-ready description and hashtag
// copy from the enhanced prompt and whichever assets were generated.
type DescriptionWriter struct {
	text  generate.TextBackend
	model string
}

// NewDescriptionWriter creates a DescriptionWriter.
func NewDescriptionWriter(text generate.TextBackend, model string) *DescriptionWriter {
	return &DescriptionWriter{text: text, model: model}
}

// Name implements Worker.
func (w *DescriptionWriter) Name() string { return "description_writer" }

// ValidateInput implements Worker.
func (w *DescriptionWriter) ValidateInput(in Input) bool {
	return in.EnhancedPrompt != ""
}

// Process implements Worker.
func (w *DescriptionWriter) Process(ctx context.Context, in Input) Result {
	content, err := w.text.Generate(
		ctx,
		descriptionWriterSystem,
		fmt.Sprintf("Content prompt: %s\nGenerated assets: %s", in.EnhancedPrompt, assetSummary(in.Assets)),
	)
	if err != nil {
		return failure("write description: %v", err)
	}

	parsed, err := formatting.Parse[descriptionResponse](content)
	if err != nil {
		return failure("write description: %v", err)
	}
	if parsed.Description == "" && parsed.Caption == "" {
		return failure("write description: model returned an empty response")
	}
	if parsed.Description == "" {
		parsed.Description = parsed.Caption
	}

	return Result{
		Success: true,
		Output: Output{
			Caption:      parsed.Caption,
			Description:  parsed.Description,
			Hashtags:     parsed.Hashtags,
			CallToAction: parsed.CallToAction,
		},
		Metadata: Metadata{Model: w.model},
	}
}

func assetSummary(assets map[workflow.Modality]string) string {
	var parts []string
	for _, m := range []workflow.Modality{workflow.ModalityAudio, workflow.ModalityImage, workflow.ModalityVideo} {
		if path := assets[m]; path != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", m, path))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
