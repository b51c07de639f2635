package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/logger"
)

// AnalyzePath is the local path the dev proxy accepts analyze calls on.
const AnalyzePath = "/api/analyze"

// Proxy forwards POST /api/analyze to a fixed upstream URL, so a front end
// served locally can reach the webhook without CORS.
type Proxy struct {
	httpServer *http.Server
	target     *url.URL
	logger     *zap.Logger
}

func NewProxy(listen, target string, l *zap.Logger) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse proxy target %q: %w", target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy target %q must be an absolute URL", target)
	}

	p := &Proxy{target: u, logger: logger.WithFields(l, zap.String("target", target))}

	rp := &httputil.ReverseProxy{
		Rewrite: p.rewrite,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.logger.Warn("proxy upstream failed", zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	mux := http.NewServeMux()
	mux.Handle("POST "+AnalyzePath, rp)

	p.httpServer = &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return p, nil
}

// rewrite replaces the whole request URL; the local path is not appended to
// the target path.
func (p *Proxy) rewrite(r *httputil.ProxyRequest) {
	out := *p.target
	out.RawQuery = r.In.URL.RawQuery
	r.Out.URL = &out
	r.Out.Host = p.target.Host
	r.SetXForwarded()

	p.logger.Debug("proxying analyze request", zap.String("remote", remoteHost(r.In)))
}

func (p *Proxy) Handler() http.Handler {
	return p.httpServer.Handler
}

func (p *Proxy) Run(ctx context.Context) error {
	return serve(ctx, p.httpServer, p.logger)
}
