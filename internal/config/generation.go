package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvWriterModel    = "MUSE_WRITER_MODEL"
	EnvDefaultVoice   = "MUSE_DEFAULT_VOICE"
	EnvOutputDir      = "MUSE_OUTPUT_DIR"
	EnvMaxAttempts    = "MUSE_MAX_ATTEMPTS"
	EnvSpeechEndpoint = "MUSE_SPEECH_ENDPOINT"
	EnvImageEndpoint  = "MUSE_IMAGE_ENDPOINT"
)

// GenerationConfig holds the content-generation pipeline settings.
type GenerationConfig struct {
	WriterModel    string `toml:"writer_model"`
	DefaultVoice   string `toml:"default_voice"`
	ImageStyle     string `toml:"image_style"`
	OutputDir      string `toml:"output_dir"`
	MaxAttempts    int    `toml:"max_attempts"`
	SpeechEndpoint string `toml:"speech_endpoint"`
	SpeechTimeout  string `toml:"speech_timeout"`
	ImageEndpoint  string `toml:"image_endpoint"`
	ImageTimeout   string `toml:"image_timeout"`
}

// SpeechTimeoutDuration returns SpeechTimeout as a time.Duration.
func (c *GenerationConfig) SpeechTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.SpeechTimeout)
	return d
}

// ImageTimeoutDuration returns ImageTimeout as a time.Duration.
func (c *GenerationConfig) ImageTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ImageTimeout)
	return d
}

// Merge overwrites non-zero fields from overlay.
func (c *GenerationConfig) Merge(overlay *GenerationConfig) {
	if overlay.WriterModel != "" {
		c.WriterModel = overlay.WriterModel
	}
	if overlay.DefaultVoice != "" {
		c.DefaultVoice = overlay.DefaultVoice
	}
	if overlay.ImageStyle != "" {
		c.ImageStyle = overlay.ImageStyle
	}
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.SpeechEndpoint != "" {
		c.SpeechEndpoint = overlay.SpeechEndpoint
	}
	if overlay.SpeechTimeout != "" {
		c.SpeechTimeout = overlay.SpeechTimeout
	}
	if overlay.ImageEndpoint != "" {
		c.ImageEndpoint = overlay.ImageEndpoint
	}
	if overlay.ImageTimeout != "" {
		c.ImageTimeout = overlay.ImageTimeout
	}
}

// Finalize applies defaults, environment overrides, and validation.
func (c *GenerationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *GenerationConfig) loadDefaults() {
	if c.WriterModel == "" {
		c.WriterModel = "gemini-2.0-flash"
	}
	if c.DefaultVoice == "" {
		c.DefaultVoice = "en-US-AriaNeural"
	}
	if c.ImageStyle == "" {
		c.ImageStyle = "cinematic"
	}
	if c.OutputDir == "" {
		c.OutputDir = "outputs"
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.SpeechEndpoint == "" {
		c.SpeechEndpoint = "http://localhost:5050/v1/audio/speech"
	}
	if c.SpeechTimeout == "" {
		c.SpeechTimeout = "60s"
	}
	if c.ImageEndpoint == "" {
		c.ImageEndpoint = "https://image.pollinations.ai"
	}
	if c.ImageTimeout == "" {
		c.ImageTimeout = "60s"
	}
}

func (c *GenerationConfig) loadEnv() {
	if v := os.Getenv(EnvWriterModel); v != "" {
		c.WriterModel = v
	}
	if v := os.Getenv(EnvDefaultVoice); v != "" {
		c.DefaultVoice = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvMaxAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAttempts = n
		}
	}
	if v := os.Getenv(EnvSpeechEndpoint); v != "" {
		c.SpeechEndpoint = v
	}
	if v := os.Getenv(EnvImageEndpoint); v != "" {
		c.ImageEndpoint = v
	}
}

func (c *GenerationConfig) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}
	if _, err := time.ParseDuration(c.SpeechTimeout); err != nil {
		return fmt.Errorf("invalid speech_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ImageTimeout); err != nil {
		return fmt.Errorf("invalid image_timeout: %w", err)
	}
	return nil
}
