package webhook

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"

	// n8n answers 404 with this phrase when the webhook node is bound to GET.
	postRejectedMarker = "POST requests"
)

// Send posts the request and returns the raw body of a 2xx response.
func (c *Client) Send(ctx context.Context, payload ai.Request) (string, error) {
	if ctx.Err() != nil {
		return "", ai.ErrCancelled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ai.TransportError{Err: err}
	}

	req = c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ai.ErrCancelled
		}
		return "", &ai.TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		if ctx.Err() != nil {
			return "", ai.ErrCancelled
		}
		return "", &ai.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	raw := string(data)

	c.logger.Debug("webhook response",
		zap.Int("status", resp.StatusCode),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.MaxLogLength)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusNotFound && strings.Contains(raw, postRejectedMarker) {
			return "", &ai.EndpointMisconfiguredError{Endpoint: c.endpoint, Body: raw}
		}
		return "", &ai.TransportError{StatusCode: resp.StatusCode, Body: raw}
	}

	return raw, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", c.UserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	return req
}

// readBody decompresses gzip bodies itself: setting Accept-Encoding explicitly
// turns off the transport's transparent decoding.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			// An empty gzip body is still an empty body.
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	return io.ReadAll(reader)
}
