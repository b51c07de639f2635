package ai

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		expect string
	}{
		{err: nil, expect: ""},
		{err: fmt.Errorf("wrapped: %w", ErrCancelled), expect: "cancelled"},
		{err: &MissingInputError{Which: InputResume}, expect: "missing_input"},
		{err: &EndpointMisconfiguredError{Endpoint: "http://x"}, expect: "endpoint_misconfigured"},
		{err: &TransportError{StatusCode: 500, Body: "boom"}, expect: "transport_error"},
		{err: ErrEmptyResponse, expect: "empty_response"},
		{err: &InvalidJSONError{Snippet: "x"}, expect: "invalid_json"},
		{err: errors.New("other"), expect: "internal"},
	}

	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.expect {
			t.Fatalf("Kind(%v): expected %q, got %q", tt.err, tt.expect, got)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	if got := (&MissingInputError{Which: InputJobDescription}).Error(); got != "job description text is missing or empty" {
		t.Fatalf("unexpected message: %s", got)
	}

	if got := (&TransportError{StatusCode: 502, Body: "bad gateway"}).Error(); got != "server error: 502 - bad gateway" {
		t.Fatalf("unexpected message: %s", got)
	}

	netErr := errors.New("connection refused")
	transport := &TransportError{Err: netErr}
	if !errors.Is(transport, netErr) {
		t.Fatalf("expected transport error to unwrap the network error")
	}
	if got := transport.Error(); got != "transport error: connection refused" {
		t.Fatalf("unexpected message: %s", got)
	}

	if errors.Is(&EndpointMisconfiguredError{}, ErrTransport) {
		t.Fatalf("endpoint misconfiguration must be distinguishable from transport errors")
	}
}

func TestResultSelected(t *testing.T) {
	t.Parallel()

	var nilResult *Result
	if nilResult.Selected() {
		t.Fatalf("nil result must not be selected")
	}

	if !(&Result{Status: StatusSelected}).Selected() {
		t.Fatalf("expected SELECTED result to be selected")
	}
}
