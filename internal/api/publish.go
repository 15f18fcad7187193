package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/musegen/muse/pkg/handlers"
	"github.com/musegen/muse/pkg/routes"
)

// SocialPublisher posts generated content to Meta surfaces.
type SocialPublisher interface {
	InstagramImage(ctx context.Context, igUserID, imageURL, caption string) (string, error)
	Thread(ctx context.Context, userID, text, imageURL string) (string, error)
}

// PublishHandler provides HTTP endpoints for social publishing. A nil
// publisher means the feature was not configured; requests are
// rejected rather than failing mid-flow.
type PublishHandler struct {
	publisher       SocialPublisher
	logger          *slog.Logger
	instagramUserID string
	threadsUserID   string
}

// InstagramPublishRequest is the JSON body for the Instagram endpoint.
type InstagramPublishRequest struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption,omitempty"`
}

// ThreadsPublishRequest is the JSON body for the Threads endpoint. Text
// posts omit ImageURL; image posts carry both.
type ThreadsPublishRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// PublishResponse reports the published media identifier.
type PublishResponse struct {
	MediaID string `json:"media_id"`
}

// NewPublishHandler creates a PublishHandler with the given publisher,
// logger, and configured account identifiers.
func NewPublishHandler(
	publisher SocialPublisher,
	logger *slog.Logger,
	instagramUserID, threadsUserID string,
) *PublishHandler {
	return &PublishHandler{
		publisher:       publisher,
		logger:          logger.With("handler", "publish"),
		instagramUserID: instagramUserID,
		threadsUserID:   threadsUserID,
	}
}

// Routes returns the route group definition for publish endpoints.
func (h *PublishHandler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/publish",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/instagram", Handler: h.Instagram},
			{Method: "POST", Pattern: "/threads", Handler: h.Threads},
		},
	}
}

// Instagram publishes a hosted image with an optional caption.
func (h *PublishHandler) Instagram(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrPublishNotEnabled), ErrPublishNotEnabled)
		return
	}
	if h.instagramUserID == "" {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrMissingPublishUser), ErrMissingPublishUser)
		return
	}

	var req InstagramPublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	mediaID, err := h.publisher.InstagramImage(r.Context(), h.instagramUserID, req.ImageURL, req.Caption)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadGateway, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PublishResponse{MediaID: mediaID})
}

// Threads publishes a text or image post to Threads.
func (h *PublishHandler) Threads(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrPublishNotEnabled), ErrPublishNotEnabled)
		return
	}
	if h.threadsUserID == "" {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrMissingPublishUser), ErrMissingPublishUser)
		return
	}

	var req ThreadsPublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Text == "" && req.ImageURL == "") {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	mediaID, err := h.publisher.Thread(r.Context(), h.threadsUserID, req.Text, req.ImageURL)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadGateway, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PublishResponse{MediaID: mediaID})
}
