package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/gifted/internal/logging"
	"github.com/abhisek/gifted/internal/store"
)

type fakeEventRepo struct {
	mu      sync.Mutex
	events  []store.LLMRequestEventData
	failErr error
}

func (f *fakeEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.events = append(f.events, data)
	return nil
}

func (f *fakeEventRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return nil, nil
}

func (f *fakeEventRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestWithLogging_RecordsSuccess(t *testing.T) {
	var buf bytes.Buffer
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{
		Content: []byte("Yes. Gifted in mathematics."),
		Usage:   Usage{InputTokens: 120, OutputTokens: 9},
	})
	p := WithLogging(mock, "mock", newBufferLogger(&buf), repo)

	ctx := logging.WithRequestID(WithPurpose(context.Background(), "gifted-classification"), "req-1")
	resp, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "Name: Ada"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Yes. Gifted in mathematics." {
		t.Fatalf("unexpected text %q", resp.Text())
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.RequestID != "req-1" || ev.Provider != "mock" || ev.Model != "mock" {
		t.Fatalf("unexpected event identity: %+v", ev)
	}
	if ev.Purpose != "gifted-classification" || !ev.Success {
		t.Fatalf("unexpected event outcome: %+v", ev)
	}
	if ev.InputTokens != 120 || ev.OutputTokens != 9 {
		t.Fatalf("unexpected token counts: %+v", ev)
	}

	out := buf.String()
	if !strings.Contains(out, "llm request") || !strings.Contains(out, "request_id=req-1") {
		t.Fatalf("missing log fields: %s", out)
	}
	if strings.Contains(out, "Ada") || strings.Contains(out, "Gifted in mathematics") {
		t.Fatalf("prompt or reply leaked into logs: %s", out)
	}
}

func TestWithLogging_RecordsFailure(t *testing.T) {
	var buf bytes.Buffer
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockError(&ErrProviderUnavailable{Err: errors.New("upstream down")}))
	p := WithLogging(mock, "mock", newBufferLogger(&buf), repo)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}

	if len(repo.events) != 1 || repo.events[0].Success {
		t.Fatalf("expected one failed event, got %+v", repo.events)
	}
	if !strings.Contains(repo.events[0].ErrorMessage, "upstream down") {
		t.Fatalf("unexpected error message %q", repo.events[0].ErrorMessage)
	}
	if !strings.Contains(buf.String(), "llm request failed") {
		t.Fatalf("expected failure log, got: %s", buf.String())
	}
}

func TestWithLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	var buf bytes.Buffer
	repo := &fakeEventRepo{failErr: errors.New("disk full")}
	p := WithLogging(NewStaticMockProvider("No"), "mock", newBufferLogger(&buf), repo)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "failed to record llm request") {
		t.Fatalf("expected warning, got: %s", buf.String())
	}
}

func TestWithLogging_NilRepo(t *testing.T) {
	var buf bytes.Buffer
	p := WithLogging(NewStaticMockProvider("No"), "mock", newBufferLogger(&buf), nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected model id 'mock', got %q", p.ModelID())
	}
}
