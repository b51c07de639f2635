// Package server exposes extraction and analysis over HTTP for a browser
// front end.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/spigell/jd-matcher/internal/analysis"
	"github.com/spigell/jd-matcher/internal/extract"
	"github.com/spigell/jd-matcher/internal/logger"
)

const (
	SessionHeader = "X-Session-ID"

	defaultRateLimit  = 1.0
	defaultBurst      = 3
	defaultSessionTTL = 30 * time.Minute
	shutdownTimeout   = 10 * time.Second
	// multipart framing on top of the file itself
	multipartOverhead = 1 << 20
)

type Config struct {
	Listen string
	// RateLimit is the number of analyze requests per second per session.
	RateLimit  float64
	Burst      int
	SessionTTL time.Duration
}

type Server struct {
	httpServer *http.Server
	extractor  *extract.Extractor
	sessions   *sessions
	logger     *zap.Logger
}

type sessionKey struct{}

func New(cfg Config, analyzer *analysis.Analyzer, l *zap.Logger) *Server {
	l = logger.OrNop(l)

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	s := &Server{
		extractor: extract.New(l),
		sessions:  newSessions(analyzer, l, rate.Limit(cfg.RateLimit), cfg.Burst, cfg.SessionTTL),
		logger:    l,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/extract", s.handleExtract)
	mux.Handle("POST /api/analyze", s.withRateLimit(http.HandlerFunc(s.handleAnalyze)))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.withLogging(s.withSession(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled and then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	return serve(ctx, s.httpServer, s.logger)
}

func serve(ctx context.Context, srv *http.Server, l *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		l.Info("shutting down", zap.String("addr", srv.Addr))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// withSession makes sure every request carries a session id and echoes it.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(SessionHeader, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := s.sessions.get(sessionID(r))
		if !entry.limiter.Allow() {
			s.writeError(w, r, fmt.Errorf("session %s: %w", sessionID(r), ErrRateLimited))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", remoteHost(r)),
			zap.String(logger.FieldSession, rec.Header().Get(SessionHeader)),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
