package acl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/kondate/internal/adapters/clients"
	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/platform/config"
	"github.com/jsamuelsen/kondate/internal/ports"
)

var (
	_ ports.LanguageModel = (*OllamaModel)(nil)
	_ ports.HealthChecker = (*OllamaModel)(nil)
)

func newOllama(t *testing.T, handler http.HandlerFunc) *OllamaModel {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "ollama",
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	})
	require.NoError(t, err)

	return NewOllamaModel(OllamaConfig{
		Client:      client,
		Model:       "gemma3:4b",
		Temperature: 0.7,
		TopP:        0.95,
		MaxTokens:   8192,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestNewOllamaModel_Panics(t *testing.T) {
	assert.Panics(t, func() { NewOllamaModel(OllamaConfig{Model: "gemma3:4b"}) })

	client, err := clients.New(&clients.Config{ServiceName: "ollama"})
	require.NoError(t, err)
	assert.Panics(t, func() { NewOllamaModel(OllamaConfig{Client: client}) })
}

func TestOllamaModel_Generate(t *testing.T) {
	var got ollamaChatRequest

	model := newOllama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gemma3:4b",
			"message": {"role": "assistant", "content": "弱火でじっくり煮ると味が染みます。"},
			"done": true,
			"done_reason": "stop",
			"eval_count": 42
		}`))
	})

	reply, err := model.Generate(context.Background(), domain.Prompt{
		System: "あなたは料理のアシスタントです。",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "肉じゃがのコツは？"},
			{Role: domain.RoleAssistant, Content: "煮すぎないことです。"},
			{Role: "system", Content: "ignored role becomes user"},
		},
		Temperature: 0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, "弱火でじっくり煮ると味が染みます。", reply)
	assert.Equal(t, "gemma3:4b", got.Model)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.3, got.Options.Temperature, 1e-9)
	assert.InDelta(t, 0.95, got.Options.TopP, 1e-9)
	assert.Equal(t, 8192, got.Options.NumPredict)

	require.Len(t, got.Messages, 4)
	assert.Equal(t, ollamaMessage{Role: "system", Content: "あなたは料理のアシスタントです。"}, got.Messages[0])
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "user", got.Messages[3].Role)
}

func TestOllamaModel_Generate_ErrorsAreUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"model missing", http.StatusNotFound, `{"error":"model 'gemma3:4b' not found, try pulling it first"}`},
		{"bad request", http.StatusBadRequest, `{"error":"invalid options"}`},
		{"server error", http.StatusInternalServerError, `{"error":"out of memory"}`},
		{"garbage body", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := newOllama(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := model.Generate(context.Background(), domain.Prompt{
				Messages: []domain.Message{{Role: domain.RoleUser, Content: "こんにちは"}},
			})

			require.Error(t, err)
			assert.True(t, domain.IsUnavailable(err), "got %v", err)
		})
	}
}

func TestOllamaModel_Check(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"model pulled", http.StatusOK, `{"models":[{"name":"llama3:latest"},{"name":"gemma3:4b"}]}`, ""},
		{"model missing", http.StatusOK, `{"models":[{"name":"llama3:latest"}]}`, `model "gemma3:4b" is not pulled`},
		{"server down", http.StatusServiceUnavailable, ``, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := newOllama(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := model.Check(context.Background())

			assert.Equal(t, "ollama", model.Name())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSameModel(t *testing.T) {
	assert.True(t, sameModel("llama3", "llama3:latest"))
	assert.True(t, sameModel("gemma3:4b", "gemma3:4b"))
	assert.False(t, sameModel("gemma3:4b", "gemma3:12b"))
	assert.False(t, sameModel("gemma3", "gemma3:4b"))
}
