package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
)

type fakeBackend struct {
	body  string
	err   error
	calls int
	last  ai.Request
	send  func(ctx context.Context, req ai.Request) (string, error)
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Send(ctx context.Context, req ai.Request) (string, error) {
	f.calls++
	f.last = req
	if f.send != nil {
		return f.send(ctx, req)
	}
	return f.body, f.err
}

func validRequest() ai.Request {
	return ai.Request{JDText: "Go engineer", ResumeText: "Jane Doe, Go", Email: "jane@example.com"}
}

func TestAnalyzeReturnsNormalizedResult(t *testing.T) {
	backend := &fakeBackend{body: `[{"score": 82, "summary": "Strong", "candidate_name": "Jane"}]`}
	a := New(backend, zap.NewNop())

	result, err := a.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, validRequest(), backend.last)
	assert.Equal(t, 82.0, result.Score)
	assert.Equal(t, ai.MatchYes, result.Match)
	assert.Equal(t, ai.StatusSelected, result.Status)
	assert.Equal(t, "Jane", result.CandidateName)
}

func TestAnalyzeMissingInput(t *testing.T) {
	tests := []struct {
		name  string
		req   ai.Request
		which string
	}{
		{name: "empty jd", req: ai.Request{JDText: "", ResumeText: "cv"}, which: ai.InputJobDescription},
		{name: "whitespace jd", req: ai.Request{JDText: " \n\t", ResumeText: "cv"}, which: ai.InputJobDescription},
		{name: "both empty reports jd", req: ai.Request{}, which: ai.InputJobDescription},
		{name: "empty resume", req: ai.Request{JDText: "jd", ResumeText: "  "}, which: ai.InputResume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{body: `{"score": 1}`}
			_, err := New(backend, nil).Analyze(context.Background(), tt.req)

			var missing *ai.MissingInputError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.which, missing.Which)
			assert.ErrorIs(t, err, ai.ErrMissingInput)
			assert.Zero(t, backend.calls)
		})
	}
}

func TestAnalyzeCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	backend := &fakeBackend{}

	_, err := New(backend, nil).Analyze(ctx, ai.Request{})

	assert.ErrorIs(t, err, ai.ErrCancelled)
	assert.Zero(t, backend.calls)
}

func TestAnalyzeEmptyBody(t *testing.T) {
	for _, body := range []string{"", "   \n\t"} {
		backend := &fakeBackend{body: body}
		_, err := New(backend, nil).Analyze(context.Background(), validRequest())
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	}
}

func TestAnalyzePropagatesFailures(t *testing.T) {
	transport := &ai.TransportError{StatusCode: 500, Body: "boom"}

	tests := []struct {
		name    string
		backend *fakeBackend
		target  error
	}{
		{name: "transport", backend: &fakeBackend{err: transport}, target: ai.ErrTransport},
		{name: "cancelled", backend: &fakeBackend{err: ai.ErrCancelled}, target: ai.ErrCancelled},
		{name: "invalid json", backend: &fakeBackend{body: "<html>oops</html>"}, target: ai.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.backend, nil).Analyze(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, 1, tt.backend.calls)
		})
	}
}

func TestAnalyzeDoesNotRetry(t *testing.T) {
	backend := &fakeBackend{err: &ai.TransportError{Err: errors.New("connection reset")}}

	_, err := New(backend, nil).Analyze(context.Background(), validRequest())

	require.Error(t, err)
	assert.Equal(t, 1, backend.calls)
}
