package llm

import (
	"fmt"
	"os"
	"time"
)

// DefaultAzureAPIVersion is the Azure OpenAI REST API version used unless
// OPENAI_API_VERSION overrides it.
const DefaultAzureAPIVersion = "2023-05-15"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "azure", "openai", "anthropic", "gemini", "mock"
	Provider string

	Azure     AzureConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig
	Mock      MockConfig

	// Timeout bounds a single upstream call. Default: 30s.
	Timeout time.Duration
}

// AzureConfig holds Azure OpenAI configuration. Deployment is the name of
// the model deployment, which Azure uses in place of a model ID.
type AzureConfig struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Deployment string
}

// OpenAIConfig holds configuration for api.openai.com or any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional.
}

// MockConfig configures the offline mock provider.
type MockConfig struct {
	// Reply is returned for every request.
	Reply string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "azure",
		Azure: AzureConfig{
			APIVersion: DefaultAzureAPIVersion,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Mock: MockConfig{
			Reply: "No, the mock provider does not assess students.",
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. The Azure settings use the variable names
// of the Azure Functions deployment this service replaces.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if p := os.Getenv("GIFTED_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Azure.APIKey = k
	}
	if u := os.Getenv("OPENAI_API_BASE"); u != "" {
		cfg.Azure.BaseURL = u
	}
	if v := os.Getenv("OPENAI_API_VERSION"); v != "" {
		cfg.Azure.APIVersion = v
	}
	if d := os.Getenv("AZURE_OPENAI_MODEL_NAME"); d != "" {
		cfg.Azure.Deployment = d
	}

	if k := os.Getenv("GIFTED_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("GIFTED_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("GIFTED_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("GIFTED_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("GIFTED_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("GIFTED_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("GIFTED_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if r := os.Getenv("GIFTED_MOCK_REPLY"); r != "" {
		cfg.Mock.Reply = r
	}

	if t := os.Getenv("GIFTED_LLM_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Config{}, fmt.Errorf("GIFTED_LLM_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// Validate checks that the selected provider has what it needs to connect.
func (c Config) Validate() error {
	switch c.Provider {
	case "azure":
		if c.Azure.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the azure provider")
		}
		if c.Azure.BaseURL == "" {
			return fmt.Errorf("OPENAI_API_BASE is required for the azure provider")
		}
		if c.Azure.Deployment == "" {
			return fmt.Errorf("AZURE_OPENAI_MODEL_NAME is required for the azure provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("GIFTED_OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("GIFTED_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GIFTED_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
