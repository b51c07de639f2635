// Package analysis runs one analyze operation end to end: input validation,
// a single backend call and normalization of the returned body.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/ai/normalize"
	"github.com/spigell/jd-matcher/internal/logger"
)

type Analyzer struct {
	backend    ai.Backend
	normalizer *normalize.Normalizer
	logger     *zap.Logger
}

func New(backend ai.Backend, l *zap.Logger) *Analyzer {
	l = logger.OrNop(l)
	return &Analyzer{
		backend:    backend,
		normalizer: normalize.New(l),
		logger:     l,
	}
}

// Analyze validates the request and performs exactly one backend call.
// Failures are never retried.
func (a *Analyzer) Analyze(ctx context.Context, req ai.Request) (*ai.Result, error) {
	if ctx.Err() != nil {
		return nil, ai.ErrCancelled
	}

	if strings.TrimSpace(req.JDText) == "" {
		return nil, &ai.MissingInputError{Which: ai.InputJobDescription}
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, &ai.MissingInputError{Which: ai.InputResume}
	}

	log := a.logger.With(zap.String(logger.FieldProvider, a.backend.Name()))
	log.Info("analysis started",
		zap.Int("jd_length", len(req.JDText)),
		zap.Int("resume_length", len(req.ResumeText)),
	)
	started := time.Now()

	raw, err := a.backend.Send(ctx, req)
	if err != nil {
		if errors.Is(err, ai.ErrCancelled) {
			log.Debug("analysis cancelled")
		} else {
			log.Warn("analysis backend failed", zap.String("kind", ai.Kind(err)), zap.Error(err))
		}
		return nil, err
	}

	if strings.TrimSpace(raw) == "" {
		log.Warn("analysis backend returned empty body")
		return nil, ai.ErrEmptyResponse
	}

	result, err := a.normalizer.Normalize(raw)
	if err != nil {
		log.Warn("analysis response rejected", zap.Error(err))
		return nil, err
	}

	log.Info("analysis finished",
		zap.Float64("score", result.Score),
		zap.String("match", result.Match),
		zap.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}
