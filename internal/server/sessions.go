package server

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/jd-matcher/internal/analysis"
)

type sessionEntry struct {
	session *analysis.Session
	limiter *rate.Limiter
}

// sessions keeps one analysis.Session and one token bucket per session id.
// Entries idle for longer than ttl are dropped on access.
type sessions struct {
	mu       sync.Mutex
	entries  map[string]*sessionEntry
	analyzer *analysis.Analyzer
	logger   *zap.Logger
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func newSessions(analyzer *analysis.Analyzer, l *zap.Logger, limit rate.Limit, burst int, ttl time.Duration) *sessions {
	return &sessions{
		entries:  make(map[string]*sessionEntry),
		analyzer: analyzer,
		logger:   l,
		limit:    limit,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *sessions) get(id string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIdle()

	entry, ok := s.entries[id]
	if !ok {
		entry = &sessionEntry{
			session: analysis.NewSession(id, s.analyzer, s.logger),
			limiter: rate.NewLimiter(s.limit, s.burst),
		}
		s.entries[id] = entry
	}
	return entry
}

func (s *sessions) evictIdle() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	for id, entry := range s.entries {
		if entry.session.Idle(now) > s.ttl {
			entry.session.Cancel()
			delete(s.entries, id)
		}
	}
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
