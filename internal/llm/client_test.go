package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soyeahso/safetalk/internal/config"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

// --- Registry tests ---

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("test-provider", &MockClient{ProviderName: "test-provider"})

	client, err := reg.Resolve("test-provider")
	require.NoError(t, err)
	assert.Equal(t, "test-provider", client.Name())
}

func TestRegistryAlias(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("ollama", &MockClient{ProviderName: "ollama"})
	reg.Alias(PurposeAvatar, "ollama")

	client, err := reg.Resolve(PurposeAvatar)
	require.NoError(t, err)
	assert.Equal(t, "ollama", client.Name())
}

func TestRegistryFallback(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("default-llm", &MockClient{ProviderName: "default-llm"})
	reg.SetFallback("default-llm")

	client, err := reg.Resolve("unknown-xyz")
	require.NoError(t, err)
	assert.Equal(t, "default-llm", client.Name())
}

func TestRegistryResolveNotFound(t *testing.T) {
	reg := NewRegistry(silentLog())

	_, err := reg.Resolve("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider")
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("b", &MockClient{ProviderName: "b"})
	reg.Register("a", &MockClient{ProviderName: "a"})

	assert.Equal(t, []string{"a", "b"}, reg.List())
}

func TestNewRegistryFromConfig_OpenRouter(t *testing.T) {
	cfg := config.Defaults()
	cfg.Detector.APIKey = "sk-test"

	reg := NewRegistryFromConfig(cfg, silentLog())
	assert.Equal(t, []string{"ollama", "openrouter"}, reg.List())

	det, err := reg.Resolve(PurposeDetector)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", det.Name())

	av, err := reg.Resolve(PurposeAvatar)
	require.NoError(t, err)
	assert.Equal(t, "ollama", av.Name())
}

func TestNewRegistryFromConfig_FallbackOllama(t *testing.T) {
	cfg := config.Defaults()
	cfg.Detector.FallbackOllama = true

	reg := NewRegistryFromConfig(cfg, silentLog())
	det, err := reg.Resolve(PurposeDetector)
	require.NoError(t, err)
	assert.Equal(t, "ollama", det.Name(), "no key means Ollama stands in")

	cfg.Detector.APIKey = "sk-test"
	reg = NewRegistryFromConfig(cfg, silentLog())
	det, err = reg.Resolve(PurposeDetector)
	require.NoError(t, err)
	assert.Equal(t, "openrouter+ollama", det.Name())
	assert.IsType(t, &FailoverClient{}, det)
}

func TestNewRegistryFromConfig_NoKey(t *testing.T) {
	cfg := config.Defaults()

	reg := NewRegistryFromConfig(cfg, silentLog())
	_, err := reg.Resolve(PurposeDetector)
	assert.Error(t, err)

	_, err = reg.Resolve(PurposeAvatar)
	assert.NoError(t, err)
}

func TestNewRegistryFromConfig_OllamaDetector(t *testing.T) {
	cfg := config.Defaults()
	cfg.Detector.Provider = "ollama"
	cfg.Detector.Model = "llama3"

	reg := NewRegistryFromConfig(cfg, silentLog())
	det, err := reg.Resolve(PurposeDetector)
	require.NoError(t, err)
	assert.Equal(t, "ollama", det.Name())
	assert.Equal(t, "llama3", det.(*OllamaClient).Model())
}

// --- Mock tests ---

func TestMockClientDefault(t *testing.T) {
	mock := &MockClient{ProviderName: "mock"}
	resp, err := mock.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "mock response", resp.Content)
}

func TestMockClientError(t *testing.T) {
	mock := &MockClient{
		CompleteFunc: func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
			return nil, &ProviderError{Provider: "test", Message: "rate limited", Code: 429}
		},
	}

	_, err := mock.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, 429, provErr.Code)
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Provider: "openrouter", Message: "rate limited", Code: 429}
	assert.Equal(t, "openrouter: 429 rate limited", err.Error())

	err2 := &ProviderError{Provider: "ollama", Message: "connection refused"}
	assert.Equal(t, "ollama: connection refused", err2.Error())
}

func TestWithSystem(t *testing.T) {
	user := Message{Role: RoleUser, Content: "hi"}

	msgs := withSystem(CompletionRequest{System: "be kind", Messages: []Message{user}})
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Role: RoleSystem, Content: "be kind"}, msgs[0])

	own := Message{Role: RoleSystem, Content: "custom"}
	msgs = withSystem(CompletionRequest{System: "be kind", Messages: []Message{own, user}})
	assert.Equal(t, []Message{own, user}, msgs, "existing system message wins")

	msgs = withSystem(CompletionRequest{Messages: []Message{user}})
	assert.Equal(t, []Message{user}, msgs)
}

// --- Ollama tests ---

func TestOllamaComplete(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"model":             got.Model,
			"message":           map[string]string{"role": "assistant", "content": "  I'm here for you.  "},
			"done":              true,
			"prompt_eval_count": 12,
			"eval_count":        5,
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL+"/", "deepseek-r1:1.5b", time.Second)
	resp, err := c.Complete(context.Background(), CompletionRequest{
		System:   "be kind",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "I'm here for you.", resp.Content)
	assert.Equal(t, "deepseek-r1:1.5b", resp.Model)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 5, resp.Usage.OutputTokens)

	assert.Equal(t, "deepseek-r1:1.5b", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
}

func TestOllamaModelOverride(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"message":{"role":"assistant","content":"ok"}}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "deepseek-r1:1.5b", time.Second)
	resp, err := c.Complete(context.Background(), CompletionRequest{Model: "phi"})
	require.NoError(t, err)
	assert.Equal(t, "phi", got.Model)
	assert.Equal(t, "phi", resp.Model)
}

func TestOllamaHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model 'phi' not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "phi", time.Second)
	_, err := c.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusNotFound, provErr.Code)
	assert.Contains(t, provErr.Message, "not found")
}

func TestOllamaUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewOllamaClient(url, "phi", time.Second)
	_, err := c.Complete(context.Background(), CompletionRequest{})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "ollama", provErr.Provider)
	assert.Zero(t, provErr.Code)
}

// --- OpenAI-compatible tests ---

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mistralai/mistral-7b-instruct", body["model"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"model": "mistralai/mistral-7b-instruct",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"label\":\"neutral\"}"}}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 8}
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("openrouter", srv.URL+"/api/v1", "sk-test", "mistralai/mistral-7b-instruct", time.Second)
	resp, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "classify"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"label":"neutral"}`, resp.Content)
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 8, resp.Usage.OutputTokens)
	assert.Equal(t, "openrouter", c.Name())
}

func TestOpenAIAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "No auth credentials found", "code": 401}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("openrouter", srv.URL, "bad", "m", time.Second)
	_, err := c.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.Code)
	assert.Equal(t, "openrouter", provErr.Provider)
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "x", "choices": []}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("", srv.URL, "k", "m", time.Second)
	_, err := c.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
	assert.Equal(t, "openai", c.Name())
}
