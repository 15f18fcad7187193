// Package publish implements the Meta Graph publishing integrations for
// Instagram and Threads. Each platform follows the same three-step
// protocol: create a media container, poll its processing status, then
// publish the container. The workflow core never participates in this
// loop; it only supplies the finished artifacts.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default Graph API hosts, overridable for tests.
const (
	DefaultGraphHost   = "https://graph.facebook.com"
	DefaultThreadsHost = "https://graph.threads.net"
)

// GraphError carries the HTTP status and the platform's error payload for
// a failed Graph API round trip.
type GraphError struct {
	Message    string
	StatusCode int
	Payload    map[string]any
}

func (e *GraphError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status_code=%d)", e.StatusCode)
	}
	if len(e.Payload) > 0 {
		fmt.Fprintf(&b, " (error=%v)", e.Payload)
	}
	return b.String()
}

// Config configures a Graph API client.
type Config struct {
	GraphVersion string
	AccessToken  string
	GraphHost    string
	ThreadsHost  string
	Timeout      time.Duration
}

// Client performs Graph API round trips for both platforms.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client from cfg, applying host defaults.
func NewClient(cfg Config) *Client {
	if cfg.GraphHost == "" {
		cfg.GraphHost = DefaultGraphHost
	}
	if cfg.ThreadsHost == "" {
		cfg.ThreadsHost = DefaultThreadsHost
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateImageContainer creates an Instagram image container and returns
// its id.
func (c *Client) CreateImageContainer(ctx context.Context, igUserID, imageURL, caption string) (string, error) {
	payload, err := c.request(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/%s/media", c.cfg.GraphHost, c.cfg.GraphVersion, igUserID),
		url.Values{
			"image_url": {imageURL},
			"caption":   {caption},
		},
	)
	if err != nil {
		return "", err
	}
	return containerID(payload, "instagram container creation did not return id")
}

// ContainerStatus reads an Instagram container's processing status code.
func (c *Client) ContainerStatus(ctx context.Context, containerID string) (string, error) {
	payload, err := c.request(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s/%s?%s", c.cfg.GraphHost, c.cfg.GraphVersion, containerID,
			url.Values{"fields": {"status_code"}}.Encode()),
		nil,
	)
	if err != nil {
		return "", err
	}
	status, _ := payload["status_code"].(string)
	return status, nil
}

// PublishContainer publishes a finished Instagram container and returns
// the resulting media id.
func (c *Client) PublishContainer(ctx context.Context, igUserID, creationID string) (string, error) {
	payload, err := c.request(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/%s/media_publish", c.cfg.GraphHost, c.cfg.GraphVersion, igUserID),
		url.Values{"creation_id": {creationID}},
	)
	if err != nil {
		return "", err
	}
	return containerID(payload, "instagram publish did not return id")
}

// CreateThreadsContainer creates a Threads post container and returns its
// id. Text and imageURL are optional depending on mediaType.
func (c *Client) CreateThreadsContainer(ctx context.Context, userID, mediaType, text, imageURL string) (string, error) {
	form := url.Values{"media_type": {mediaType}}
	if text != "" {
		form.Set("text", text)
	}
	if imageURL != "" {
		form.Set("image_url", imageURL)
	}

	payload, err := c.request(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/%s/threads", c.cfg.ThreadsHost, c.cfg.GraphVersion, userID),
		form,
	)
	if err != nil {
		return "", err
	}
	return containerID(payload, "threads container creation did not return id")
}

// ThreadsContainerStatus reads a Threads container's processing status.
func (c *Client) ThreadsContainerStatus(ctx context.Context, containerID string) (string, error) {
	payload, err := c.request(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s/%s?%s", c.cfg.ThreadsHost, c.cfg.GraphVersion, containerID,
			url.Values{"fields": {"status,error_message"}}.Encode()),
		nil,
	)
	if err != nil {
		return "", err
	}
	status, _ := payload["status"].(string)
	return status, nil
}

// PublishThreadsContainer publishes a finished Threads container and
// returns the resulting media id.
func (c *Client) PublishThreadsContainer(ctx context.Context, userID, creationID string) (string, error) {
	payload, err := c.request(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/%s/threads_publish", c.cfg.ThreadsHost, c.cfg.GraphVersion, userID),
		url.Values{"creation_id": {creationID}},
	)
	if err != nil {
		return "", err
	}
	return containerID(payload, "threads publish did not return id")
}

// request performs one Graph round trip. Every call carries the access
// token; form is nil for GET requests whose parameters are already in the
// URL.
func (c *Client) request(ctx context.Context, method, rawURL string, form url.Values) (map[string]any, error) {
	var body io.Reader
	if form != nil {
		form.Set("access_token", c.cfg.AccessToken)
		body = strings.NewReader(form.Encode())
	} else {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, &GraphError{Message: fmt.Sprintf("graph request failed: %v", err)}
		}
		q := u.Query()
		q.Set("access_token", c.cfg.AccessToken)
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &GraphError{Message: fmt.Sprintf("graph request failed: %v", err)}
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &GraphError{Message: fmt.Sprintf("graph request failed: %v", err)}
	}
	defer resp.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &GraphError{
			Message:    "graph returned a non-JSON response",
			StatusCode: resp.StatusCode,
		}
	}

	graphErr, _ := payload["error"].(map[string]any)
	if resp.StatusCode >= 400 || graphErr != nil {
		if graphErr == nil {
			graphErr = payload
		}
		return nil, &GraphError{
			Message:    "graph API error",
			StatusCode: resp.StatusCode,
			Payload:    graphErr,
		}
	}

	return payload, nil
}

func containerID(payload map[string]any, message string) (string, error) {
	id, ok := payload["id"].(string)
	if !ok || id == "" {
		return "", &GraphError{Message: message, Payload: payload}
	}
	return id, nil
}
