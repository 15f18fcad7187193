package workflow

import "slices"

// Modality identifies a content output type a user can request.
type Modality string

// Requestable modalities.
const (
	ModalityAudio Modality = "audio"
	ModalityImage Modality = "image"
	ModalityVideo Modality = "video"
)

// SupportedModalities lists the modalities backed by a generation worker.
// Video is accepted as a request but has no worker, so it never produces
// a gating requirement for the description stage.
var SupportedModalities = []Modality{ModalityAudio, ModalityImage}

// Supported reports whether m has a generation worker.
func Supported(m Modality) bool {
	return slices.Contains(SupportedModalities, m)
}

// Status tracks a request or stage through its lifecycle.
type Status string

// Status values. Pending and running are transitional; partial, completed,
// and failed are terminal for a request.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPartial   Status = "partial"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether s is a final outcome that no later stage
// may regress.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// OverallState holds everything accumulated for a single user request.
// One instance exists per request; stages contribute to it exclusively
// through patches so the merge rules in Apply are never bypassed.
type OverallState struct {
	RequestID           string     `json:"request_id"`
	UserPrompt          string     `json:"user_prompt"`
	RequestedModalities []Modality `json:"requested_modalities"`

	EnhancedPrompt string `json:"enhanced_prompt,omitempty"`
	MainStatement  string `json:"main_statement,omitempty"`

	AudioPath string `json:"audio_path,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
	VideoPath string `json:"video_path,omitempty"`

	Description string   `json:"description,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`

	Status Status   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

// Requested reports whether the user asked for m.
func (s *OverallState) Requested(m Modality) bool {
	return slices.Contains(s.RequestedModalities, m)
}

// RequiredAssets returns the requested modalities that a worker can
// actually produce, preserving request order.
func (s *OverallState) RequiredAssets() []Modality {
	var required []Modality
	for _, m := range s.RequestedModalities {
		if Supported(m) {
			required = append(required, m)
		}
	}
	return required
}

// AssetPath returns the generated artifact path for m, or "" when the
// modality has not produced one.
func (s *OverallState) AssetPath(m Modality) string {
	switch m {
	case ModalityAudio:
		return s.AudioPath
	case ModalityImage:
		return s.ImagePath
	case ModalityVideo:
		return s.VideoPath
	}
	return ""
}

// Assets returns the full asset map passed to the description stage. All
// three keys are always present; unproduced modalities map to "".
func (s *OverallState) Assets() map[Modality]string {
	return map[Modality]string{
		ModalityAudio: s.AudioPath,
		ModalityImage: s.ImagePath,
		ModalityVideo: s.VideoPath,
	}
}

// PromptEnhancerState is the enhancement stage's view of the request.
type PromptEnhancerState struct {
	InputPrompt string
}

// AudioState is the audio stage's view of the request.
type AudioState struct {
	Script        string
	MainStatement string
	Voice         string
}

// ImageState is the image stage's view of the request.
type ImageState struct {
	Prompt string
	Style  string
}

// DescriptionState is the description stage's view of the request.
type DescriptionState struct {
	Prompt string
	Assets map[Modality]string
}

// StagePatch is the shared result vocabulary for stage subgraphs: a stage
// status, accumulated error suggestions, and whichever output fields the
// stage owns.
type StagePatch struct {
	Status Status
	Errors []string

	EnhancedPrompt string
	MainStatement  string
	AudioPath      string
	ImagePath      string
	Description    string
	Hashtags       []string
}

// Failed reports whether the stage ended in failure.
func (p StagePatch) Failed() bool {
	return p.Status == StatusFailed
}
