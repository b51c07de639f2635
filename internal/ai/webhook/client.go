// Package webhook sends analysis requests to an HTTP webhook (an n8n workflow
// in the reference deployment) and returns its raw response body.
package webhook

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/logger"
)

const (
	// DefaultTimeout bounds a hung webhook call when nothing cancels it first.
	DefaultTimeout = 120 * time.Second

	userAgent           = "spigell/jd-matcher"
	defaultMaxLogLength = 200
)

type Client struct {
	endpoint string
	token    string
	logger   *zap.Logger

	HTTPClient   *http.Client
	UserAgent    string
	MaxLogLength int
}

// New builds a client for endpoint. token is optional; when set it is sent as
// a bearer token.
func New(l *zap.Logger, endpoint, token string) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		token:    strings.TrimSpace(token),
		logger:   logger.WithCommonFields(l, "webhook", endpoint),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		UserAgent:    userAgent,
		MaxLogLength: defaultMaxLogLength,
	}
}

func (c *Client) Name() string { return "webhook" }

func (c *Client) Endpoint() string { return c.endpoint }
