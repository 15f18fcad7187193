package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/musegen/muse/internal/agent"
	"github.com/musegen/muse/internal/api"
	"github.com/musegen/muse/internal/config"
	"github.com/musegen/muse/internal/generate"
	"github.com/musegen/muse/internal/publish"
	"github.com/musegen/muse/internal/workers"
	"github.com/musegen/muse/pkg/faults"
	"github.com/musegen/muse/pkg/routes"
	"github.com/musegen/muse/workflow"
)

func buildRuntime(cfg *config.Config, logger *slog.Logger) *agent.Runtime {
	text := generate.NewAgentText(cfg.Agent)
	speech := generate.NewHTTPSpeech(generate.SpeechConfig{
		Endpoint: cfg.Generation.SpeechEndpoint,
		Timeout:  cfg.Generation.SpeechTimeoutDuration(),
	})
	images := generate.NewHTTPImage(generate.ImageConfig{
		Endpoint: cfg.Generation.ImageEndpoint,
		Timeout:  cfg.Generation.ImageTimeoutDuration(),
	})

	model := cfg.Generation.WriterModel

	return &agent.Runtime{
		Enhancer:    workers.NewPromptEnhancer(text, model),
		Audio:       workers.NewAudioGenerator(text, speech, model, cfg.Generation.DefaultVoice, cfg.Generation.OutputDir),
		Image:       workers.NewImageGenerator(text, images, model, cfg.Generation.ImageStyle, cfg.Generation.OutputDir),
		Description: workers.NewDescriptionWriter(text, model),
		Classifier:  faults.RuleClassifier{},
		MaxAttempts: cfg.Generation.MaxAttempts,
		Logger:      logger.With("system", "workflow"),
		Voice:       cfg.Generation.DefaultVoice,
		Style:       cfg.Generation.ImageStyle,
	}
}

func buildPublisher(cfg *config.Config, logger *slog.Logger) api.SocialPublisher {
	if !cfg.Publish.Enabled() {
		return nil
	}
	client := publish.NewClient(publish.Config{
		GraphVersion: cfg.Publish.GraphVersion,
		AccessToken:  cfg.Publish.AccessToken,
	})
	return publish.NewPublisher(
		client,
		logger.With("system", "publish"),
		cfg.Publish.PollIntervalDuration(),
		cfg.Publish.MaxPolls,
	)
}

func buildRouter(cfg *config.Config, rt *agent.Runtime, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	info := api.ServiceInfo{
		Version:           cfg.Version,
		WriterModel:       cfg.Generation.WriterModel,
		DefaultVoice:      cfg.Generation.DefaultVoice,
		OutputDir:         cfg.Generation.OutputDir,
		MaxAttempts:       cfg.Generation.MaxAttempts,
		DefaultModalities: defaultModalities(),
		PublishingEnabled: cfg.Publish.Enabled(),
	}

	routes.Register(
		mux,
		api.NewHandler(rt, logger, info).Routes(),
		api.NewPublishHandler(
			buildPublisher(cfg, logger),
			logger,
			cfg.Publish.InstagramUserID,
			cfg.Publish.ThreadsUserID,
		).Routes(),
	)

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func defaultModalities() []string {
	out := make([]string, 0, len(workflow.DefaultModalities))
	for _, m := range workflow.DefaultModalities {
		out = append(out, string(m))
	}
	return out
}
