package generate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ImageConfig configures the HTTP image-synthesis client.
type ImageConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// HTTPImage is an ImageBackend that fetches generated images from a
// pollinations-style prompt-in-URL endpoint.
type HTTPImage struct {
	endpoint string
	client   *http.Client
}

// NewHTTPImage creates an HTTPImage client from cfg.
func NewHTTPImage(cfg ImageConfig) *HTTPImage {
	return &HTTPImage{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Synthesize implements ImageBackend.
func (g *HTTPImage) Synthesize(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	u := fmt.Sprintf(
		"%s/prompt/%s?width=%d&height=%d&nologo=true",
		g.endpoint, url.PathEscape(prompt), width, height,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image synthesis failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image synthesis returned empty response")
	}

	return data, nil
}
