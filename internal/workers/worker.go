// Package workers implements the generation workers behind the workflow
// stages. Each worker wraps exactly one external generative call and
// reports every failure through its Result rather than an error return,
// so retry policy stays with the caller.
package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/musegen/muse/workflow"
)

// Input is the tagged input record shared by all workers. Each variant
// validates and reads only the fields it needs.
type Input struct {
	UserPrompt     string
	EnhancedPrompt string
	MainStatement  string
	Voice          string
	Style          string
	Assets         map[workflow.Modality]string
}

// Output is the union of worker output vocabularies, with each field
// populated only by the variant that owns it.
type Output struct {
	EnhancedPrompt string
	MainStatement  string
	Style          string
	Mood           string

	Script    string
	AudioPath string

	ImagePath string

	Caption      string
	Description  string
	Hashtags     []string
	CallToAction string
}

// Metadata carries auxiliary information about one invocation.
type Metadata struct {
	Model                    string
	Voice                    string
	Dimensions               string
	ImagePrompt              string
	EstimatedDurationSeconds int
}

// Result is the uniform outcome of one worker invocation. Constructed
// fresh per attempt and never mutated afterwards; Output is meaningful
// only when Success is true.
type Result struct {
	Success  bool
	Output   Output
	Error    string
	Metadata Metadata
}

// Worker is the polymorphic unit of work, one per content modality.
type Worker interface {
	// Name identifies the worker in logs and retry context tags.
	Name() string
	// ValidateInput reports whether in carries the fields this worker
	// requires, for callers that choose to pre-validate.
	ValidateInput(in Input) bool
	// Process performs the external call. It never panics for
	// operational failures; those surface as Result.Error.
	Process(ctx context.Context, in Input) Result
}

func failure(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// contentHash derives a short collision-resistant token for artifact
// filenames from the generated content itself.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:10]
}
