package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gifted/internal/classifier"
	"github.com/abhisek/gifted/internal/llm"
	"github.com/abhisek/gifted/internal/rules"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfg Config, mock *llm.MockProvider) http.Handler {
	t.Helper()
	evaluator := rules.NewEvaluator(rules.DefaultConfig())
	c := classifier.New(mock, classifier.DefaultConfig())
	return New(cfg, evaluator, c, discardLogger()).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestEvaluateRules_Scenarios(t *testing.T) {
	h := newTestServer(t, DefaultConfig(), llm.NewMockProvider())

	tests := []struct {
		name        string
		body        string
		wantID      any
		wantGifted  bool
		wantReasons []any
	}{
		{
			name:        "scores met",
			body:        `{"StudentID":"S1","MathScore":95,"EnglishScore":92,"GPA":3.9,"TeacherNotes":""}`,
			wantID:      "S1",
			wantGifted:  true,
			wantReasons: []any{"High Scores and GPA met thresholds."},
		},
		{
			name:        "keyword only",
			body:        `{"StudentID":"S2","MathScore":50,"EnglishScore":60,"GPA":2.0,"TeacherNotes":"An exceptional thinker."}`,
			wantID:      "S2",
			wantGifted:  true,
			wantReasons: []any{"Teacher notes contain gifted keywords."},
		},
		{
			name:        "neither",
			body:        `{"StudentID":"S3","MathScore":50,"EnglishScore":60,"GPA":2.0,"TeacherNotes":"average student"}`,
			wantID:      "S3",
			wantGifted:  false,
			wantReasons: []any{},
		},
		{
			name:        "missing student id is null",
			body:        `{"TeacherNotes":"a true prodigy"}`,
			wantID:      nil,
			wantGifted:  true,
			wantReasons: []any{"Teacher notes contain gifted keywords."},
		},
		{
			name:        "overflowing score saturates",
			body:        `{"StudentID":"S6","MathScore":1e400,"EnglishScore":95,"GPA":4}`,
			wantID:      "S6",
			wantGifted:  true,
			wantReasons: []any{"High Scores and GPA met thresholds."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/EvaluateRules", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			out := decodeBody(t, rec)
			assert.Equal(t, tt.wantID, out["StudentID"])
			assert.Equal(t, tt.wantGifted, out["IsGiftedByRules"])
			assert.Equal(t, tt.wantReasons, out["RuleReasons"])
		})
	}
}

func TestEvaluateRules_NumericStudentIDEchoed(t *testing.T) {
	h := newTestServer(t, DefaultConfig(), llm.NewMockProvider())

	rec := do(t, h, http.MethodPost, "/api/EvaluateRules", `{"StudentID":1042}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"StudentID":1042`)
}

func TestMalformedBodies(t *testing.T) {
	bodies := []string{"", "not json", `{"StudentID":`, `[1,2]`, `"S1"`, `{"GPA":"high"}`}

	for _, path := range []string{"/EvaluateRules", "/ClassifyStudentAI"} {
		for _, body := range bodies {
			t.Run(path+" "+body, func(t *testing.T) {
				mock := llm.NewMockProvider(llm.MockText("Yes"))
				h := newTestServer(t, DefaultConfig(), mock)

				rec := do(t, h, http.MethodPost, path, body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
				assert.Equal(t, 0, mock.CallCount(), "malformed bodies never reach the provider")

				want := msgRulesBadRequest
				if path == "/ClassifyStudentAI" {
					want = msgAIBadRequest
				}
				assert.Equal(t, want, strings.TrimSpace(rec.Body.String()))
			})
		}
	}
}

func TestGetWithoutBodyIsBadRequest(t *testing.T) {
	h := newTestServer(t, DefaultConfig(), llm.NewMockProvider())
	rec := do(t, h, http.MethodGet, "/EvaluateRules", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnsupportedMethod(t *testing.T) {
	h := newTestServer(t, DefaultConfig(), llm.NewMockProvider())
	rec := do(t, h, http.MethodDelete, "/EvaluateRules", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBodyTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 16
	h := newTestServer(t, cfg, llm.NewMockProvider())

	rec := do(t, h, http.MethodPost, "/EvaluateRules", `{"TeacherNotes":"far too long for the limit"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestClassifyStudentAI_NegativeReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("No, the profile does not show strong indicators."))
	h := newTestServer(t, DefaultConfig(), mock)

	rec := do(t, h, http.MethodPost, "/ClassifyStudentAI", `{"StudentID":"S4","MathScore":70}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	out := decodeBody(t, rec)
	assert.Equal(t, "S4", out["StudentID"])
	assert.Equal(t, false, out["IsGiftedByAI"])
	assert.Equal(t, "the profile does not show strong indicators", out["AIReason"])
	assert.Equal(t, 1, mock.CallCount())
}

func TestClassifyStudentAI_MissingStudentID(t *testing.T) {
	h := newTestServer(t, DefaultConfig(), llm.NewStaticMockProvider("Yes. Exceptional curiosity."))

	rec := do(t, h, http.MethodPost, "/api/ClassifyStudentAI", `{"Name":"Ada"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decodeBody(t, rec)
	assert.Equal(t, "N/A", out["StudentID"])
	assert.Equal(t, true, out["IsGiftedByAI"])
	assert.Equal(t, "Exceptional curiosity", out["AIReason"])
}

func TestClassifyStudentAI_UpstreamFailure(t *testing.T) {
	upstream := &llm.ErrProviderUnavailable{Err: errors.New("dial tcp: connection refused")}

	t.Run("hardened body", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockError(upstream))
		h := newTestServer(t, DefaultConfig(), mock)

		rec := do(t, h, http.MethodPost, "/ClassifyStudentAI", `{"StudentID":"S5"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
		assert.Equal(t, "Error processing AI classification.", strings.TrimSpace(rec.Body.String()))
		assert.NotContains(t, rec.Body.String(), "IsGiftedByAI")
		assert.Equal(t, 1, mock.CallCount())
	})

	t.Run("legacy body", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ExposeUpstreamErrors = true
		mock := llm.NewMockProvider(llm.MockError(upstream))
		h := newTestServer(t, cfg, mock)

		rec := do(t, h, http.MethodPost, "/ClassifyStudentAI", `{"StudentID":"S5"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "Error processing AI classification: "), body)
		assert.Contains(t, body, "connection refused")
	})
}

func TestFunctionKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FunctionKey = "s3cret"
	h := newTestServer(t, cfg, llm.NewMockProvider())
	body := `{"StudentID":"S1"}`

	rec := do(t, h, http.MethodPost, "/EvaluateRules", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/EvaluateRules?code=wrong", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/EvaluateRules?code=s3cret", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/EvaluateRules", strings.NewReader(body))
	req.Header.Set("x-functions-key", "s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code, "health check needs no key")
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, DefaultConfig(), llm.NewMockProvider())

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "trace-abc", rec.Header().Get("X-Request-ID"))
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, DefaultConfig(), llm.NewMockProvider())
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(DefaultConfig(), rules.NewEvaluator(rules.DefaultConfig()),
		classifier.New(llm.NewMockProvider(), classifier.DefaultConfig()), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
