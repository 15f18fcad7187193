package workflow_test

import (
	"slices"
	"testing"

	"github.com/musegen/muse/workflow"
)

func ptr(s string) *string { return &s }

func TestApplyMergeRules(t *testing.T) {
	tests := []struct {
		name  string
		state workflow.OverallState
		patch workflow.Patch
		check func(t *testing.T, st workflow.OverallState)
	}{
		{
			"asset path set once",
			workflow.OverallState{},
			workflow.Patch{AudioPath: ptr("outputs/audio/a.mp3")},
			func(t *testing.T, st workflow.OverallState) {
				if st.AudioPath != "outputs/audio/a.mp3" {
					t.Errorf("AudioPath = %q", st.AudioPath)
				}
			},
		},
		{
			"asset path never cleared",
			workflow.OverallState{AudioPath: "outputs/audio/a.mp3"},
			workflow.Patch{AudioPath: ptr("")},
			func(t *testing.T, st workflow.OverallState) {
				if st.AudioPath != "outputs/audio/a.mp3" {
					t.Errorf("AudioPath = %q, want original preserved", st.AudioPath)
				}
			},
		},
		{
			"description first write wins",
			workflow.OverallState{Description: "original"},
			workflow.Patch{Description: ptr("replacement")},
			func(t *testing.T, st workflow.OverallState) {
				if st.Description != "original" {
					t.Errorf("Description = %q, want %q", st.Description, "original")
				}
			},
		},
		{
			"errors concatenate",
			workflow.OverallState{Errors: []string{"first"}},
			workflow.Patch{Errors: []string{"second"}},
			func(t *testing.T, st workflow.OverallState) {
				want := []string{"first", "second"}
				if !slices.Equal(st.Errors, want) {
					t.Errorf("Errors = %v, want %v", st.Errors, want)
				}
			},
		},
		{
			"terminal status never regresses",
			workflow.OverallState{Status: workflow.StatusCompleted},
			workflow.Patch{Status: workflow.StatusRunning},
			func(t *testing.T, st workflow.OverallState) {
				if st.Status != workflow.StatusCompleted {
					t.Errorf("Status = %q, want %q", st.Status, workflow.StatusCompleted)
				}
			},
		},
		{
			"transitional status advances",
			workflow.OverallState{Status: workflow.StatusPending},
			workflow.Patch{Status: workflow.StatusRunning},
			func(t *testing.T, st workflow.OverallState) {
				if st.Status != workflow.StatusRunning {
					t.Errorf("Status = %q, want %q", st.Status, workflow.StatusRunning)
				}
			},
		},
		{
			"zero status leaves state untouched",
			workflow.OverallState{Status: workflow.StatusRunning},
			workflow.Patch{EnhancedPrompt: ptr("better")},
			func(t *testing.T, st workflow.OverallState) {
				if st.Status != workflow.StatusRunning {
					t.Errorf("Status = %q, want %q", st.Status, workflow.StatusRunning)
				}
				if st.EnhancedPrompt != "better" {
					t.Errorf("EnhancedPrompt = %q", st.EnhancedPrompt)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.state
			st.Apply(tt.patch)
			tt.check(t, st)
		})
	}
}

func TestPatchEmpty(t *testing.T) {
	tests := []struct {
		name  string
		patch workflow.Patch
		want  bool
	}{
		{"zero patch", workflow.Patch{}, true},
		{"error only", workflow.Patch{Errors: []string{"boom"}}, false},
		{"path only", workflow.Patch{ImagePath: ptr("outputs/images/i.png")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patch.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergePatchesKeepsAllErrors(t *testing.T) {
	audio := workflow.Patch{
		AudioPath: ptr("outputs/audio/a.mp3"),
		Errors:    []string{"audio retry exhausted"},
	}
	image := workflow.Patch{
		Errors: []string{"image generation failed"},
	}

	merged := workflow.MergePatches(audio, image)

	want := []string{"audio retry exhausted", "image generation failed"}
	if !slices.Equal(merged.Errors, want) {
		t.Errorf("Errors = %v, want %v", merged.Errors, want)
	}
	if merged.AudioPath == nil || *merged.AudioPath != "outputs/audio/a.mp3" {
		t.Errorf("AudioPath not carried through merge")
	}
}

func TestRequiredAssets(t *testing.T) {
	tests := []struct {
		name      string
		requested []workflow.Modality
		want      []workflow.Modality
	}{
		{
			"video filtered out",
			[]workflow.Modality{workflow.ModalityVideo},
			nil,
		},
		{
			"supported preserved in order",
			[]workflow.Modality{workflow.ModalityImage, workflow.ModalityAudio},
			[]workflow.Modality{workflow.ModalityImage, workflow.ModalityAudio},
		},
		{
			"mixed request keeps only supported",
			[]workflow.Modality{workflow.ModalityAudio, workflow.ModalityVideo},
			[]workflow.Modality{workflow.ModalityAudio},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := workflow.OverallState{RequestedModalities: tt.requested}
			if got := st.RequiredAssets(); !slices.Equal(got, tt.want) {
				t.Errorf("RequiredAssets() = %v, want %v", got, tt.want)
			}
		})
	}
}
