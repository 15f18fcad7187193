package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SpeechConfig configures the HTTP speech-synthesis client.
type SpeechConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// HTTPSpeech is a SpeechBackend that posts scripts to a speech-synthesis
// endpoint and returns the encoded audio bytes from the response body.
type HTTPSpeech struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSpeech creates an HTTPSpeech client from cfg.
func NewHTTPSpeech(cfg SpeechConfig) *HTTPSpeech {
	return &HTTPSpeech{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

type speechRequest struct {
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Synthesize implements SpeechBackend.
func (s *HTTPSpeech) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{Input: text, Voice: voice})
	if err != nil {
		return nil, fmt.Errorf("encode speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech synthesis failed: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech synthesis returned empty response")
	}

	return audio, nil
}
