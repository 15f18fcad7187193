package workers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/musegen/muse/internal/generate"
	"github.com/musegen/muse/pkg/formatting"
)

type imagePromptResponse struct {
	ImagePrompt    string `json:"image_prompt"`
	NegativePrompt string `json:"negative_prompt"`
	AspectRatio    string `json:"aspect_ratio"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// ImageGenerator rewrites the enhanced prompt into a generator-optimized
// image prompt, fetches the synthesized image, normalizes it to the
// requested dimensions, and writes it under <outputDir>/images.
type ImageGenerator struct {
	text      generate.TextBackend
	images    generate.ImageBackend
	model     string
	style     string
	outputDir string
}

// NewImageGenerator creates an ImageGenerator writing artifacts beneath
// outputDir. style sets the default visual style for prompt rewriting; an
// Input.Style overrides it per request.
func NewImageGenerator(
	text generate.TextBackend,
	images generate.ImageBackend,
	model string,
	style string,
	outputDir string,
) *ImageGenerator {
	return &ImageGenerator{
		text:      text,
		images:    images,
		model:     model,
		style:     style,
		outputDir: filepath.Join(outputDir, "images"),
	}
}

// Name implements Worker.
func (w *ImageGenerator) Name() string { return "image_generator" }

// ValidateInput implements Worker.
func (w *ImageGenerator) ValidateInput(in Input) bool {
	return in.EnhancedPrompt != ""
}

// Process implements Worker.
func (w *ImageGenerator) Process(ctx context.Context, in Input) Result {
	style := w.style
	if in.Style != "" {
		style = in.Style
	}
	user := fmt.Sprintf("Enhanced prompt: %s", in.EnhancedPrompt)
	if style != "" {
		user = fmt.Sprintf("%s\nVisual style: %s", user, style)
	}

	content, err := w.text.Generate(ctx, imagePromptSystem, user)
	if err != nil {
		return failure("write image prompt: %v", err)
	}

	parsed, err := formatting.Parse[imagePromptResponse](content)
	if err != nil {
		return failure("write image prompt: %v", err)
	}
	if parsed.ImagePrompt == "" {
		parsed.ImagePrompt = in.EnhancedPrompt
	}
	if parsed.Width <= 0 || parsed.Height <= 0 {
		parsed.Width, parsed.Height = 1024, 576
	}

	data, err := w.images.Synthesize(ctx, parsed.ImagePrompt, parsed.Width, parsed.Height)
	if err != nil {
		return failure("synthesize image: %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return failure("decode image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != parsed.Width || b.Dy() != parsed.Height {
		img = imaging.Resize(img, parsed.Width, parsed.Height, imaging.Lanczos)
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return failure("create image directory: %v", err)
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf(
		"image_%s_%dx%d.png",
		contentHash(parsed.ImagePrompt), parsed.Width, parsed.Height,
	))
	if err := imaging.Save(img, path); err != nil {
		return failure("write image file: %v", err)
	}

	return Result{
		Success: true,
		Output: Output{
			ImagePath: path,
		},
		Metadata: Metadata{
			Model:       w.model,
			ImagePrompt: parsed.ImagePrompt,
			Dimensions:  fmt.Sprintf("%dx%d", parsed.Width, parsed.Height),
		},
	}
}
