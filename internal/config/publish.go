package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvGraphVersion    = "MUSE_GRAPH_VERSION"
	EnvAccessToken     = "MUSE_META_ACCESS_TOKEN"
	EnvInstagramUserID = "MUSE_INSTAGRAM_USER_ID"
	EnvThreadsUserID   = "MUSE_THREADS_USER_ID"
)

// PublishConfig holds Meta Graph publishing settings. Publishing is
// optional; the feature is off until an access token is configured.
type PublishConfig struct {
	GraphVersion    string `toml:"graph_version"`
	AccessToken     string `toml:"access_token"`
	InstagramUserID string `toml:"instagram_user_id"`
	ThreadsUserID   string `toml:"threads_user_id"`
	PollInterval    string `toml:"poll_interval"`
	MaxPolls        int    `toml:"max_polls"`
}

// Enabled reports whether publishing is configured.
func (c *PublishConfig) Enabled() bool {
	return c.AccessToken != ""
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *PublishConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// Merge overwrites non-zero fields from overlay.
func (c *PublishConfig) Merge(overlay *PublishConfig) {
	if overlay.GraphVersion != "" {
		c.GraphVersion = overlay.GraphVersion
	}
	if overlay.AccessToken != "" {
		c.AccessToken = overlay.AccessToken
	}
	if overlay.InstagramUserID != "" {
		c.InstagramUserID = overlay.InstagramUserID
	}
	if overlay.ThreadsUserID != "" {
		c.ThreadsUserID = overlay.ThreadsUserID
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.MaxPolls != 0 {
		c.MaxPolls = overlay.MaxPolls
	}
}

// Finalize applies defaults, environment overrides, and validation.
func (c *PublishConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *PublishConfig) loadDefaults() {
	if c.GraphVersion == "" {
		c.GraphVersion = "v23.0"
	}
	if c.PollInterval == "" {
		c.PollInterval = "2s"
	}
	if c.MaxPolls == 0 {
		c.MaxPolls = 30
	}
}

func (c *PublishConfig) loadEnv() {
	if v := os.Getenv(EnvGraphVersion); v != "" {
		c.GraphVersion = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.AccessToken = v
	}
	if v := os.Getenv(EnvInstagramUserID); v != "" {
		c.InstagramUserID = v
	}
	if v := os.Getenv(EnvThreadsUserID); v != "" {
		c.ThreadsUserID = v
	}
	if v := os.Getenv("MUSE_PUBLISH_MAX_POLLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPolls = n
		}
	}
}

func (c *PublishConfig) validate() error {
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if c.MaxPolls < 1 {
		return fmt.Errorf("max_polls must be at least 1")
	}
	return nil
}
