package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Container processing states reported by the Graph API.
const (
	containerFinished = "FINISHED"
	containerError    = "ERROR"
)

// Publisher drives the create → poll → publish sequence for one post.
type Publisher struct {
	client       *Client
	logger       *slog.Logger
	pollInterval time.Duration
	maxPolls     int
}

// NewPublisher creates a Publisher polling at interval, giving up after
// maxPolls status checks.
func NewPublisher(client *Client, logger *slog.Logger, interval time.Duration, maxPolls int) *Publisher {
	if maxPolls < 1 {
		maxPolls = 1
	}
	return &Publisher{
		client:       client,
		logger:       logger.With("system", "publish"),
		pollInterval: interval,
		maxPolls:     maxPolls,
	}
}

// InstagramImage publishes an image post to Instagram and returns the
// published media id.
func (p *Publisher) InstagramImage(ctx context.Context, igUserID, imageURL, caption string) (string, error) {
	container, err := p.client.CreateImageContainer(ctx, igUserID, imageURL, caption)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	p.logger.InfoContext(ctx, "instagram container created", "container_id", container)

	status := func(ctx context.Context) (string, error) {
		return p.client.ContainerStatus(ctx, container)
	}
	if err := p.awaitContainer(ctx, status); err != nil {
		return "", err
	}

	mediaID, err := p.client.PublishContainer(ctx, igUserID, container)
	if err != nil {
		return "", fmt.Errorf("publish container: %w", err)
	}

	p.logger.InfoContext(ctx, "instagram post published", "media_id", mediaID)
	return mediaID, nil
}

// Thread publishes a Threads post, attaching an image when imageURL is
// non-empty, and returns the published media id.
func (p *Publisher) Thread(ctx context.Context, userID, text, imageURL string) (string, error) {
	mediaType := "TEXT"
	if imageURL != "" {
		mediaType = "IMAGE"
	}

	container, err := p.client.CreateThreadsContainer(ctx, userID, mediaType, text, imageURL)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	p.logger.InfoContext(ctx, "threads container created", "container_id", container)

	status := func(ctx context.Context) (string, error) {
		return p.client.ThreadsContainerStatus(ctx, container)
	}
	if err := p.awaitContainer(ctx, status); err != nil {
		return "", err
	}

	mediaID, err := p.client.PublishThreadsContainer(ctx, userID, container)
	if err != nil {
		return "", fmt.Errorf("publish container: %w", err)
	}

	p.logger.InfoContext(ctx, "threads post published", "media_id", mediaID)
	return mediaID, nil
}

// awaitContainer polls until the container finishes processing or the
// poll budget is spent.
func (p *Publisher) awaitContainer(ctx context.Context, status func(context.Context) (string, error)) error {
	for poll := 0; poll < p.maxPolls; poll++ {
		state, err := status(ctx)
		if err != nil {
			return fmt.Errorf("container status: %w", err)
		}

		switch state {
		case containerFinished:
			return nil
		case containerError:
			return fmt.Errorf("container processing failed")
		}

		timer := time.NewTimer(p.pollInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return fmt.Errorf("container not ready after %d polls", p.maxPolls)
}
