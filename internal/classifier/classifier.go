// Package classifier asks an LLM whether a student profile looks gifted.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/gifted/internal/llm"
	"github.com/abhisek/gifted/internal/student"
)

// Purpose labels classification calls in the LLM call log.
const Purpose = "gifted-classification"

// MissingStudentID is echoed when the profile has no StudentID.
const MissingStudentID = "N/A"

// Config holds classification request settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Structured requests a JSON verdict matching VerdictSchema instead of
	// scraping free text with ParseVerdict.
	Structured bool

	// Timeout bounds the upstream call. Zero means no extra bound beyond
	// the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the settings every classification uses unless
// overridden.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   150,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// ConfigFromEnv applies GIFTED_AI_STRUCTURED on top of DefaultConfig.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("GIFTED_AI_STRUCTURED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("GIFTED_AI_STRUCTURED: %w", err)
		}
		cfg.Structured = b
	}
	return cfg, nil
}

// Verdict is the AI giftedness result.
type Verdict struct {
	StudentID    any    `json:"StudentID"`
	IsGiftedByAI bool   `json:"IsGiftedByAI"`
	AIReason     string `json:"AIReason"`
}

// Classifier makes exactly one provider call per profile. It is safe for
// concurrent use when the provider is.
type Classifier struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Classifier.
func New(provider llm.Provider, cfg Config) *Classifier {
	return &Classifier{provider: provider, cfg: cfg}
}

// Classify renders the profile into a prompt, sends it upstream and parses
// the reply. Any provider failure is returned wrapped; no partial verdict
// is produced.
func (c *Classifier) Classify(ctx context.Context, p *student.Profile) (*Verdict, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	prompt, err := BuildPrompt(p)
	if err != nil {
		return nil, fmt.Errorf("build classification prompt: %w", err)
	}

	req := llm.Request{
		System:      SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if c.cfg.Structured {
		req.Schema = VerdictSchema
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM classification failed: %w", err)
	}

	v := &Verdict{StudentID: p.StudentID()}
	if v.StudentID == nil {
		v.StudentID = MissingStudentID
	}

	if c.cfg.Structured {
		var raw structuredVerdict
		if err := json.Unmarshal(resp.Content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse classification response: %w", err)
		}
		v.IsGiftedByAI = raw.IsGifted
		v.AIReason = strings.TrimSpace(raw.Reason)
		return v, nil
	}

	v.IsGiftedByAI, v.AIReason = ParseVerdict(resp.Text())
	return v, nil
}
