package analysis

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/logger"
)

// Session serializes analyze calls for one user. Starting a call cancels the
// previous in-flight one, and only the newest call may deliver a result.
type Session struct {
	id       string
	analyzer *Analyzer
	logger   *zap.Logger

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
	lastUsed   time.Time
}

func NewSession(id string, analyzer *Analyzer, l *zap.Logger) *Session {
	return &Session{
		id:       id,
		analyzer: analyzer,
		logger:   logger.WithSession(l, id),
		lastUsed: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// Analyze supersedes any in-flight call of this session. A superseded call
// returns ai.ErrCancelled even if its backend call completed.
func (s *Session) Analyze(ctx context.Context, req ai.Request) (*ai.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.logger.Debug("superseding in-flight analysis", zap.Uint64("generation", s.generation))
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.lastUsed = time.Now()
	s.mu.Unlock()

	result, err := s.analyzer.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil, ai.ErrCancelled
	}
	s.cancel = nil

	return result, err
}

// Cancel aborts the in-flight call, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

// Idle reports how long the session has had no analyze call started.
func (s *Session) Idle(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}
