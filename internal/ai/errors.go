package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled signals supersession or an explicit abort. It is not a
	// user-facing failure.
	ErrCancelled = errors.New("request cancelled")
	// ErrEmptyResponse is returned for a 2xx response with a blank body.
	ErrEmptyResponse = errors.New("analysis failed: server returned an empty response")

	ErrMissingInput          = errors.New("missing input")
	ErrTransport             = errors.New("transport error")
	ErrEndpointMisconfigured = errors.New("endpoint misconfigured")
	ErrInvalidJSON           = errors.New("invalid json")
)

const (
	InputJobDescription = "job description"
	InputResume         = "resume"
)

type MissingInputError struct {
	Which string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s text is missing or empty", e.Which)
}

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }

// TransportError covers network failures (StatusCode is 0) and non-2xx replies.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("server error: %d - %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// EndpointMisconfiguredError means the remote webhook refuses POST, which is a
// deployment problem rather than a transient failure.
type EndpointMisconfiguredError struct {
	Endpoint string
	Body     string
}

func (e *EndpointMisconfiguredError) Error() string {
	return "configuration error: the webhook at " + e.Endpoint + " is rejecting POST requests; " +
		"check the workflow settings and make sure the webhook node method is set to POST"
}

func (e *EndpointMisconfiguredError) Is(target error) bool { return target == ErrEndpointMisconfigured }

type InvalidJSONError struct {
	Snippet string
	Err     error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("server returned invalid JSON. Response: %s", e.Snippet)
}

func (e *InvalidJSONError) Unwrap() error { return e.Err }

func (e *InvalidJSONError) Is(target error) bool { return target == ErrInvalidJSON }

// Kind names the error class for collaborators (HTTP API, CLI). Unknown errors
// report "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrMissingInput):
		return "missing_input"
	case errors.Is(err, ErrEndpointMisconfigured):
		return "endpoint_misconfigured"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	default:
		return "internal"
	}
}
