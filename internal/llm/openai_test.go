package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	client := openai.NewClientWithConfig(config)

	return &OpenAIProvider{
		client: client,
		model:  "gpt-4o-mini",
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": "No, the profile does not show strong indicators.",
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an AI assistant helping to identify gifted students based on provided profiles.",
		Messages:  []Message{{Role: RoleUser, Content: "Is this student potentially gifted or talented?"}},
		MaxTokens: 150,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 {
		t.Fatalf("expected 40 input tokens, got %d", resp.Usage.InputTokens)
	}
	if resp.Usage.OutputTokens != 25 {
		t.Fatalf("expected 25 output tokens, got %d", resp.Usage.OutputTokens)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
	if resp.Text() != "No, the profile does not show strong indicators." {
		t.Fatalf("unexpected text %q", resp.Text())
	}
}

func TestAzureOpenAIProvider_DeploymentRouting(t *testing.T) {
	var (
		gotPath    string
		gotVersion string
		gotKey     string
		gotBody    map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-azure",
			"object": "chat.completion",
			"model":  "gpt-35-turbo",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "Yes. Advanced reasoning."},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 8, "total_tokens": 128},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewAzureOpenAIProvider(AzureConfig{
		APIKey:     "azure-key",
		BaseURL:    server.URL + "/",
		APIVersion: DefaultAzureAPIVersion,
		Deployment: "gifted-gpt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gifted-gpt" {
		t.Fatalf("expected deployment as model id, got %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), Request{
		System:      "sys",
		Messages:    []Message{{Role: RoleUser, Content: "profile"}},
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/openai/deployments/gifted-gpt/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotVersion != DefaultAzureAPIVersion {
		t.Fatalf("unexpected api-version %q", gotVersion)
	}
	if gotKey != "azure-key" {
		t.Fatalf("expected api-key header, got %q", gotKey)
	}
	if gotBody["max_tokens"] != float64(150) {
		t.Fatalf("expected max_tokens 150, got %v", gotBody["max_tokens"])
	}
	if _, ok := gotBody["max_completion_tokens"]; ok {
		t.Fatal("max_completion_tokens must not be sent to azure")
	}
	if gotBody["temperature"] != 0.7 {
		t.Fatalf("expected temperature 0.7, got %v", gotBody["temperature"])
	}
	if resp.Text() != "Yes. Advanced reasoning." || resp.Model != "gpt-35-turbo" {
		t.Fatalf("unexpected response: %q from %q", resp.Text(), resp.Model)
	}
}

func TestNewAzureOpenAIProvider_MissingSettings(t *testing.T) {
	cases := []AzureConfig{
		{BaseURL: "https://x", Deployment: "d"},
		{APIKey: "k", Deployment: "d"},
		{APIKey: "k", BaseURL: "https://x"},
	}
	for _, cfg := range cases {
		if _, err := NewAzureOpenAIProvider(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "tokens",
				"message": "Rate limit exceeded",
				"code":    "rate_limit_exceeded",
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 100,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "server_error",
				"message": "Internal server error",
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 100,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ModelID(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4o-mini"}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected 'gpt-4o-mini', got %q", p.ModelID())
	}
}

func TestOpenAIProvider_BaseURLOverride(t *testing.T) {
	cfg := OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: "https://llm-gateway.internal.example/v1",
	}
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("expected 'gpt-4o', got %q", p.ModelID())
	}
}
