package workers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/musegen/muse/internal/generate"
	"github.com/musegen/muse/pkg/formatting"
)

type scriptResponse struct {
	Script                   string `json:"script"`
	EstimatedDurationSeconds int    `json:"estimated_duration_seconds"`
	VoiceSuggestion          string `json:"voice_suggestion"`
}

// AudioGenerator writes a narration script with the text backend, then
// synthesizes it to an audio file under <outputDir>/audio. Filenames derive
// from the script content hash, so concurrent requests never collide.
type AudioGenerator struct {
	text      generate.TextBackend
	speech    generate.SpeechBackend
	model     string
	voice     string
	outputDir string
}

// NewAudioGenerator creates an AudioGenerator writing artifacts beneath
// outputDir.
func NewAudioGenerator(
	text generate.TextBackend,
	speech generate.SpeechBackend,
	model string,
	voice string,
	outputDir string,
) *AudioGenerator {
	return &AudioGenerator{
		text:      text,
		speech:    speech,
		model:     model,
		voice:     voice,
		outputDir: filepath.Join(outputDir, "audio"),
	}
}

// Name implements Worker.
func (w *AudioGenerator) Name() string { return "audio_generator" }

// ValidateInput implements Worker.
func (w *AudioGenerator) ValidateInput(in Input) bool {
	return in.EnhancedPrompt != ""
}

// Process implements Worker.
func (w *AudioGenerator) Process(ctx context.Context, in Input) Result {
	content, err := w.text.Generate(
		ctx,
		audioScriptSystem,
		fmt.Sprintf("Enhanced prompt: %s\nMain statement: %s", in.EnhancedPrompt, in.MainStatement),
	)
	if err != nil {
		return failure("write script: %v", err)
	}

	parsed, err := formatting.Parse[scriptResponse](content)
	if err != nil {
		return failure("write script: %v", err)
	}
	if parsed.Script == "" {
		return failure("write script: model returned an empty response")
	}

	voice := w.voice
	if in.Voice != "" {
		voice = in.Voice
	}
	audio, err := w.speech.Synthesize(ctx, parsed.Script, voice)
	if err != nil {
		return failure("synthesize speech: %v", err)
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return failure("create audio directory: %v", err)
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("audio_%s.mp3", contentHash(parsed.Script)))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return failure("write audio file: %v", err)
	}

	return Result{
		Success: true,
		Output: Output{
			AudioPath: path,
			Script:    parsed.Script,
		},
		Metadata: Metadata{
			Model:                    w.model,
			Voice:                    voice,
			EstimatedDurationSeconds: parsed.EstimatedDurationSeconds,
		},
	}
}
