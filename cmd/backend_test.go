package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai/webhook"
)

func testConfig() *Config {
	return &Config{
		Webhook: &WebhookConfig{},
		Gemini:  &GeminiConfig{},
		Serve:   &ServeConfig{},
		Proxy:   &ProxyConfig{},
	}
}

func TestNewBackendWebhook(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("secret\n"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	cfg := testConfig()
	cfg.Webhook.URL = "https://hooks.example.com/analyze"
	cfg.Webhook.AuthTokenFile = tokenFile
	cfg.Webhook.Timeout = 5 * time.Second
	cfg.Webhook.UserAgent = "test-agent"
	cfg.MaxLogLength = 50

	backend, err := newBackend(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newBackend returned error: %v", err)
	}

	client, ok := backend.(*webhook.Client)
	if !ok {
		t.Fatalf("expected webhook client, got %T", backend)
	}
	if client.Endpoint() != "https://hooks.example.com/analyze" {
		t.Fatalf("unexpected endpoint %q", client.Endpoint())
	}
	if client.HTTPClient.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", client.HTTPClient.Timeout)
	}
	if client.UserAgent != "test-agent" || client.MaxLogLength != 50 {
		t.Fatalf("unexpected client settings: %+v", client)
	}
}

func TestNewBackendWebhookWithoutToken(t *testing.T) {
	backend, err := newBackend(context.Background(), testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("newBackend returned error: %v", err)
	}
	if backend.Name() != "webhook" {
		t.Fatalf("unexpected backend %q", backend.Name())
	}
}

func TestNewBackendMissingTokenFile(t *testing.T) {
	cfg := testConfig()
	cfg.Webhook.AuthTokenFile = filepath.Join(t.TempDir(), "missing")

	if _, err := newBackend(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error for missing token file")
	}
}

func TestNewBackendUnsupportedProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = "openai"

	if _, err := newBackend(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestNewBackendGeminiRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := testConfig()
	cfg.Provider = "Gemini"

	if _, err := newBackend(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error for missing gemini api key")
	}
}
