package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
)

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	a, err := NewAnthropicAdapter(config.ProviderConfig{
		APIKey:       "sk-ant-test",
		Model:        "claude-3-sonnet-20240229",
		Temperature:  0.7,
		MaxTokens:    2000,
		SystemPrompt: "system role",
		BaseURL:      server.URL,
		Timeout:      5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewAnthropicAdapter() error = %v", err)
	}
	return a
}

func TestNewAnthropicAdapter_RequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicAdapter(config.ProviderConfig{}); err == nil {
		t.Error("NewAnthropicAdapter() error = nil, want error without API key")
	}
}

func TestAnthropicChat_Success(t *testing.T) {
	var got anthropicRequest
	a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "sk-ant-test" {
			t.Errorf("x-api-key header = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("anthropic-version header = %q", r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"claude-3-sonnet-20240229","content":[{"type":"text","text":"{\"sequence\":[]}"}],"usage":{"input_tokens":120,"output_tokens":80}}`))
	})

	temp := 0.2
	resp, err := a.Chat(context.Background(), "write a sequence", ChatOptions{Model: "claude-3-haiku-20240307", Temperature: &temp})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if got.System != "system role" {
		t.Errorf("system = %q, want configured system prompt", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "write a sequence" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.Model != "claude-3-haiku-20240307" || got.MaxTokens != 2000 {
		t.Errorf("model/max_tokens = %s/%d", got.Model, got.MaxTokens)
	}
	if got.Temperature == nil || *got.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", got.Temperature)
	}

	if resp.Content != `{"sequence":[]}` {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 200 {
		t.Errorf("TotalTokens = %d, want 200", resp.Usage.TotalTokens)
	}
	if resp.Model != "claude-3-haiku-20240307" {
		t.Errorf("Model = %q, want requested model", resp.Model)
	}
}

func TestAnthropicChat_ErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, apperr.ErrProviderAuth},
		{http.StatusTooManyRequests, apperr.ErrProviderRateLimit},
		{http.StatusBadRequest, apperr.ErrProviderRequest},
	}

	for _, tt := range tests {
		a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error":{"type":"x","message":"nope"}}`))
		})

		_, err := a.Chat(context.Background(), "p", ChatOptions{})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: error = %v, want kind %v", tt.status, err, tt.want)
		}
	}
}

func TestAnthropicTestConnection(t *testing.T) {
	ok := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"type":"text","text":"hi"}],"usage":{"input_tokens":1,"output_tokens":1}}`))
	})
	if !ok.TestConnection(context.Background()) {
		t.Error("TestConnection() = false, want true")
	}

	failing := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if failing.TestConnection(context.Background()) {
		t.Error("TestConnection() = true, want false on 401")
	}
}
