package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/ai/gemini"
	"github.com/spigell/jd-matcher/internal/ai/webhook"
	"github.com/spigell/jd-matcher/internal/analysis"
	"github.com/spigell/jd-matcher/internal/secrets"
)

func newAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (*analysis.Analyzer, error) {
	backend, err := newBackend(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("building %s backend: %w", config.Provider, err)
	}

	return analysis.New(backend, logger), nil
}

func newBackend(ctx context.Context, config *Config, logger *zap.Logger) (ai.Backend, error) {
	switch provider := strings.TrimSpace(strings.ToLower(config.Provider)); provider {
	case "", "webhook":
		return newWebhookBackend(config, logger)
	case "gemini":
		return newGeminiBackend(ctx, config, logger)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

func newWebhookBackend(config *Config, logger *zap.Logger) (*webhook.Client, error) {
	token, err := secrets.Load(secrets.Source{
		Name:     "webhook auth token",
		File:     config.Webhook.AuthTokenFile,
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	endpoint := resolveEndpoint(config.Webhook, config.Dev, buildMode)
	client := webhook.New(logger, endpoint, token)

	if config.Webhook.Timeout > 0 {
		client.HTTPClient = &http.Client{Timeout: config.Webhook.Timeout}
	}
	if config.Webhook.UserAgent != "" {
		client.UserAgent = config.Webhook.UserAgent
	}
	if config.MaxLogLength > 0 {
		client.MaxLogLength = config.MaxLogLength
	}

	return client, nil
}

func newGeminiBackend(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Backend, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewBackend(generator, logger, config.MaxLogLength), nil
}
