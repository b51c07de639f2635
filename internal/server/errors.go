package server

import (
	"errors"
	"net/http"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/extract"
)

// StatusClientClosedRequest is returned for analyze calls superseded by a
// newer call of the same session.
const StatusClientClosedRequest = 499

var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// HTTPStatus maps an error to the HTTP status code returned to the client.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ai.ErrCancelled):
		return StatusClientClosedRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrBadRequest), errors.Is(err, ai.ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extract.ErrEmptyText), errors.Is(err, extract.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrEndpointMisconfigured),
		errors.Is(err, ai.ErrTransport),
		errors.Is(err, ai.ErrEmptyResponse),
		errors.Is(err, ai.ErrInvalidJSON):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Kind extends ai.Kind with the extraction and request classes.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, extract.ErrFileTooLarge):
		return "file_too_large"
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, extract.ErrEmptyText):
		return "empty_text"
	case errors.Is(err, extract.ErrExtractionFailed):
		return "extraction_failed"
	default:
		return ai.Kind(err)
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

func newErrorResponse(err error) errorResponse {
	resp := errorResponse{Error: err.Error(), Kind: Kind(err)}

	var transport *ai.TransportError
	var misconfigured *ai.EndpointMisconfiguredError
	var extraction *extract.ExtractionError
	switch {
	case errors.As(err, &misconfigured):
		resp.Detail = misconfigured.Body
	case errors.As(err, &transport):
		resp.Detail = transport.Body
	case errors.As(err, &extraction):
		resp.Detail = extraction.Format
	}

	return resp
}
