// Package workflow defines the foundational types for the muse content
// generation pipeline: the overall request state, stage-local views, the
// cross-stage merge rules, and the request parser consumed by the
// orchestration runtime.
package workflow

import "errors"

// Sentinel errors for cross-stage contract violations. These indicate a
// broken precondition between stages rather than an external-call failure,
// and abort the entire request without retrying.
var (
	ErrUserPromptRequired     = errors.New("user prompt is required")
	ErrEnhancedPromptRequired = errors.New("enhanced prompt is required")
)
