package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/gifted/internal/logging"
	"github.com/abhisek/gifted/internal/store"
)

// LoggingProvider is a decorator that logs every LLM request and, when an
// event repo is configured, records it in the call log. Prompts and replies
// are never logged.
type LoggingProvider struct {
	inner     Provider
	provider  string
	logger    *slog.Logger
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with request logging. repo may be nil.
func WithLogging(p Provider, providerName string, logger *slog.Logger, repo store.EventRepo) Provider {
	if logger == nil {
		logger = logging.New("llm")
	}
	return &LoggingProvider{inner: p, provider: providerName, logger: logger, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		RequestID: logging.RequestIDFrom(ctx),
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	attrs := []any{
		slog.String("request_id", data.RequestID),
		slog.String("provider", data.Provider),
		slog.String("model", data.Model),
		slog.String("purpose", data.Purpose),
		slog.Int("input_tokens", data.InputTokens),
		slog.Int("output_tokens", data.OutputTokens),
		slog.Duration("latency", latency),
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "llm request failed", append(attrs, slog.Any("error", err))...)
	} else {
		l.logger.InfoContext(ctx, "llm request", append(attrs, slog.String("stop_reason", resp.StopReason))...)
	}

	// A failed write to the call log never fails the request.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.WarnContext(ctx, "failed to record llm request", slog.Any("error", logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
