package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/gifted/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with request
// logging. eventRepo may be nil to skip the call log. Upstream calls are
// never retried.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "azure":
		base, err = NewAzureOpenAIProvider(cfg.Azure)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewStaticMockProvider(cfg.Mock.Reply)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, logger, eventRepo), nil
}
