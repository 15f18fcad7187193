// Package generate defines the external generative backends the workers
// consume: text completion, speech synthesis, and image synthesis. Workers
// depend only on these interfaces; concrete clients live alongside them.
package generate

import "context"

// TextBackend produces a text completion for a system instruction and user
// content. Implementations return the raw response text; callers are
// responsible for schema parsing.
type TextBackend interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// SpeechBackend synthesizes narrated audio for a script in the given voice.
type SpeechBackend interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// ImageBackend synthesizes an image for a prompt at the given dimensions.
type ImageBackend interface {
	Synthesize(ctx context.Context, prompt string, width, height int) ([]byte, error)
}
