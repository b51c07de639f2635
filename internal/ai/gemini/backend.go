// Package gemini implements an analysis backend that asks a Gemini model for
// the analysis directly instead of going through the webhook workflow.
package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/logger"
	"github.com/spigell/jd-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Backend satisfies ai.Backend. The returned body goes through the same
// normalizer as webhook responses.
type Backend struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

func NewBackend(generator contentGenerator, l *zap.Logger, maxLogLength int) *Backend {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Backend{
		generator: generator,
		logger:    logger.WithCommonFields(l, "gemini", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (b *Backend) Name() string { return "gemini" }

func (b *Backend) Send(ctx context.Context, req ai.Request) (string, error) {
	if ctx.Err() != nil {
		return "", ai.ErrCancelled
	}

	message, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	b.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCount(message)),
		zap.String("prompt_preview", utils.TruncateForLog(string(message), b.maxLogLen)),
	)

	raw, err := b.generator.GenerateContent(ctx, systemPrompt, string(message))
	if err != nil {
		if ctx.Err() != nil {
			return "", ai.ErrCancelled
		}
		return "", transportError(err)
	}

	b.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, b.maxLogLen)),
	)

	return extractJSON(raw), nil
}

func transportError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.TransportError{StatusCode: apiErr.Code, Body: apiErr.Message, Err: err}
	}
	return &ai.TransportError{Err: err}
}

// extractJSON drops a markdown fence around the whole answer.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
