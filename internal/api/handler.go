package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/musegen/muse/internal/agent"
	"github.com/musegen/muse/pkg/handlers"
	"github.com/musegen/muse/pkg/routes"
	"github.com/musegen/muse/workflow"
)

// Runner executes a content-generation workflow for a single request.
type Runner interface {
	Execute(ctx context.Context, req agent.Request) (workflow.OverallState, error)
}

// Handler provides HTTP endpoints for content generation.
type Handler struct {
	runner  Runner
	logger  *slog.Logger
	version string
	info    ServiceInfo
}

// ServiceInfo is the sanitized configuration view served by the config
// endpoint. It never carries credentials.
type ServiceInfo struct {
	Version           string   `json:"version"`
	WriterModel       string   `json:"writer_model"`
	DefaultVoice      string   `json:"default_voice"`
	OutputDir         string   `json:"output_dir"`
	MaxAttempts       int      `json:"max_attempts"`
	DefaultModalities []string `json:"default_modalities"`
	PublishingEnabled bool     `json:"publishing_enabled"`
}

// GenerateRequest is the JSON body for the generate endpoint. RequestID
// and Modalities are optional; a missing RequestID gets a generated
// UUID, and missing Modalities defer to keyword detection on the
// prompt.
type GenerateRequest struct {
	UserPrompt string   `json:"user_prompt"`
	RequestID  string   `json:"request_id,omitempty"`
	Modalities []string `json:"modalities,omitempty"`
}

// GenerateResponse summarizes a finished workflow run.
type GenerateResponse struct {
	Success      bool     `json:"success"`
	RequestID    string   `json:"request_id"`
	Status       string   `json:"status"`
	EnhancedText string   `json:"enhanced_text,omitempty"`
	AudioPath    string   `json:"audio_path,omitempty"`
	ImagePath    string   `json:"image_path,omitempty"`
	Description  string   `json:"description,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	Errors       []string `json:"errors,omitempty"`
	Message      string   `json:"message"`
}

// NewHandler creates a Handler with the given runner, logger, and
// service info view.
func NewHandler(runner Runner, logger *slog.Logger, info ServiceInfo) *Handler {
	return &Handler{
		runner:  runner,
		logger:  logger.With("handler", "generate"),
		version: info.Version,
		info:    info,
	}
}

// Routes returns the route group definition for generation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/generate", Handler: h.Generate},
			{Method: "GET", Pattern: "/health", Handler: h.Health},
			{Method: "GET", Pattern: "/config", Handler: h.Config},
		},
	}
}

// Generate runs the full workflow for a prompt and returns the final
// state summary. Branch failures surface in the errors list rather
// than as an HTTP failure; only invalid input rejects the request.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	modalities, err := parseModalities(req.Modalities)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	state, err := h.runner.Execute(r.Context(), agent.Request{
		RequestID:  req.RequestID,
		UserPrompt: req.UserPrompt,
		Modalities: modalities,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summarize(state))
}

// Health reports service liveness and version.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}

// Config reports the sanitized service configuration.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.info)
}

func parseModalities(raw []string) ([]workflow.Modality, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	modalities := make([]workflow.Modality, 0, len(raw))
	for _, s := range raw {
		m := workflow.Modality(s)
		if !workflow.Supported(m) && m != workflow.ModalityVideo {
			return nil, ErrUnknownModality
		}
		modalities = append(modalities, m)
	}
	return modalities, nil
}

func summarize(st workflow.OverallState) GenerateResponse {
	resp := GenerateResponse{
		Success:      len(st.Errors) == 0,
		RequestID:    st.RequestID,
		Status:       string(st.Status),
		EnhancedText: st.EnhancedPrompt,
		AudioPath:    st.AudioPath,
		ImagePath:    st.ImagePath,
		Description:  st.Description,
		Hashtags:     st.Hashtags,
		Errors:       st.Errors,
	}
	if resp.Success {
		resp.Message = "generation completed"
	} else {
		resp.Message = "generation finished with errors"
	}
	return resp
}
