package api

import (
	"errors"
	"net/http"

	"github.com/musegen/muse/workflow"
)

var (
	ErrInvalidBody        = errors.New("invalid request body")
	ErrUnknownModality    = errors.New("unknown modality")
	ErrPublishNotEnabled  = errors.New("publishing is not configured")
	ErrMissingPublishUser = errors.New("publish user id is not configured")
)

// MapHTTPStatus translates service errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrUserPromptRequired),
		errors.Is(err, workflow.ErrEnhancedPromptRequired),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrUnknownModality):
		return http.StatusBadRequest
	case errors.Is(err, ErrPublishNotEnabled),
		errors.Is(err, ErrMissingPublishUser):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
