package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage("Yes. Exceptional scores."), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockText("No, nothing stands out."),
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text() != "Yes. Exceptional scores." {
		t.Fatalf("unexpected text %q", resp1.Text())
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text() != "No, nothing stands out." {
		t.Fatalf("unexpected text %q", resp2.Text())
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_StaticReplyRepeats(t *testing.T) {
	mock := NewStaticMockProvider("No, average profile.")
	for i := 0; i < 3; i++ {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if resp.Text() != "No, average profile." {
			t.Fatalf("call %d: unexpected text %q", i, resp.Text())
		}
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestMockProvider_QueueBeforeFallback(t *testing.T) {
	mock := NewStaticMockProvider("fallback")
	mock.AddResponse(MockText("queued"))

	first, _ := mock.Generate(context.Background(), Request{})
	second, _ := mock.Generate(context.Background(), Request{})
	if first.Text() != "queued" || second.Text() != "fallback" {
		t.Fatalf("unexpected order: %q then %q", first.Text(), second.Text())
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockText("Yes"))

	req := Request{
		System:      "sys",
		Messages:    []Message{{Role: RoleUser, Content: "hello"}},
		MaxTokens:   150,
		Temperature: 0.7,
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	last, ok := mock.LastCall()
	if !ok {
		t.Fatal("expected a recorded call")
	}
	if last.System != "sys" || last.MaxTokens != 150 || last.Temperature != 0.7 {
		t.Fatalf("unexpected recorded request: %+v", last)
	}
}

func TestMockProvider_LastCallEmpty(t *testing.T) {
	if _, ok := NewMockProvider().LastCall(); ok {
		t.Fatal("expected no recorded call")
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockError(&ErrRateLimit{RetryAfter: 0}))

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ValidatesSchemaReplies(t *testing.T) {
	mock := NewMockProvider(MockText(`{"is_gifted":"maybe"}`))

	_, err := mock.Generate(context.Background(), Request{Schema: verdictTestSchema()})
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "gifted-classification")
	if p := PurposeFrom(ctx); p != "gifted-classification" {
		t.Fatalf("expected 'gifted-classification', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	azure := AzureConfig{
		APIKey:     "key",
		BaseURL:    "https://example.openai.azure.com",
		APIVersion: DefaultAzureAPIVersion,
		Deployment: "gpt-35-turbo",
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "azure complete",
			cfg:     Config{Provider: "azure", Azure: azure},
			wantErr: false,
		},
		{
			name:    "azure without key",
			cfg:     Config{Provider: "azure", Azure: AzureConfig{BaseURL: azure.BaseURL, Deployment: azure.Deployment}},
			wantErr: true,
		},
		{
			name:    "azure without endpoint",
			cfg:     Config{Provider: "azure", Azure: AzureConfig{APIKey: "key", Deployment: azure.Deployment}},
			wantErr: true,
		},
		{
			name:    "azure without deployment",
			cfg:     Config{Provider: "azure", Azure: AzureConfig{APIKey: "key", BaseURL: azure.BaseURL}},
			wantErr: true,
		},
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "negative timeout",
			cfg:     Config{Provider: "mock", Timeout: -time.Second},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GIFTED_LLM_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "azure-key")
	t.Setenv("OPENAI_API_BASE", "https://example.openai.azure.com/")
	t.Setenv("OPENAI_API_VERSION", "")
	t.Setenv("AZURE_OPENAI_MODEL_NAME", "gifted-gpt")
	t.Setenv("GIFTED_LLM_TIMEOUT", "5s")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "azure" {
		t.Fatalf("expected azure provider, got %q", cfg.Provider)
	}
	if cfg.Azure.APIKey != "azure-key" || cfg.Azure.Deployment != "gifted-gpt" {
		t.Fatalf("unexpected azure config: %+v", cfg.Azure)
	}
	if cfg.Azure.APIVersion != DefaultAzureAPIVersion {
		t.Fatalf("expected default api version, got %q", cfg.Azure.APIVersion)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestConfigFromEnv_BadTimeout(t *testing.T) {
	t.Setenv("GIFTED_LLM_TIMEOUT", "soon")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
}
