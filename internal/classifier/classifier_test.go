package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/gifted/internal/llm"
	"github.com/abhisek/gifted/internal/student"
)

func mustProfile(t *testing.T, body string) *student.Profile {
	t.Helper()
	p, err := student.Decode([]byte(body))
	if err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	return p
}

func TestClassify_Replies(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		body       string
		wantID     any
		wantGifted bool
		wantReason string
	}{
		{
			name:       "negative reply",
			reply:      "No, the profile does not show strong indicators.",
			body:       `{"StudentID":"S4","MathScore":70}`,
			wantID:     "S4",
			wantGifted: false,
			wantReason: "the profile does not show strong indicators",
		},
		{
			name:       "missing student id",
			reply:      "Yes. Brilliant.",
			body:       `{}`,
			wantID:     MissingStudentID,
			wantGifted: true,
			wantReason: "Brilliant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewStaticMockProvider(tt.reply)
			v, err := New(mock, DefaultConfig()).Classify(context.Background(), mustProfile(t, tt.body))
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if v.StudentID != tt.wantID {
				t.Errorf("StudentID = %v, want %v", v.StudentID, tt.wantID)
			}
			if v.IsGiftedByAI != tt.wantGifted {
				t.Errorf("IsGiftedByAI = %v, want %v", v.IsGiftedByAI, tt.wantGifted)
			}
			if v.AIReason != tt.wantReason {
				t.Errorf("AIReason = %q, want %q", v.AIReason, tt.wantReason)
			}
			if mock.CallCount() != 1 {
				t.Errorf("CallCount = %d, want 1", mock.CallCount())
			}
		})
	}
}

func TestClassify_UpstreamFailure(t *testing.T) {
	upstream := &llm.ErrProviderUnavailable{Err: errors.New("connection reset")}
	mock := llm.NewMockProvider(llm.MockError(upstream))
	c := New(mock, DefaultConfig())

	v, err := c.Classify(context.Background(), mustProfile(t, `{"StudentID":"S5"}`))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if v != nil {
		t.Errorf("verdict = %+v, want nil", v)
	}

	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Errorf("error = %v, want *llm.ErrProviderUnavailable", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1 (failed calls are not retried)", mock.CallCount())
	}
}

func TestClassify_RequestParameters(t *testing.T) {
	mock := llm.NewStaticMockProvider("No")
	c := New(mock, DefaultConfig())

	body := `{"StudentID":"S9","Name":"Ada","Age":9,"GradeLevel":4,"MathScore":98,"EnglishScore":91,"GPA":3.95,"ExtracurricularActivities":"Chess club","TeacherNotes":"Asks advanced questions"}`
	if _, err := c.Classify(context.Background(), mustProfile(t, body)); err != nil {
		t.Fatalf("classify: %v", err)
	}

	req, ok := mock.LastCall()
	if !ok {
		t.Fatal("no request recorded")
	}
	if req.System != SystemPrompt {
		t.Errorf("System = %q, want %q", req.System, SystemPrompt)
	}
	if req.MaxTokens != 150 {
		t.Errorf("MaxTokens = %d, want 150", req.MaxTokens)
	}
	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
	if req.Schema != nil {
		t.Errorf("Schema = %v, want nil", req.Schema)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1", len(req.Messages))
	}
	if req.Messages[0].Role != llm.RoleUser {
		t.Errorf("Role = %q, want %q", req.Messages[0].Role, llm.RoleUser)
	}

	prompt := req.Messages[0].Content
	for _, line := range []string{
		"Name: Ada",
		"Age: 9",
		"Grade Level: 4",
		"Math Score: 98",
		"English Score: 91",
		"GPA: 3.95",
		"Extracurricular Activities: Chess club",
		"Teacher Notes: Asks advanced questions",
		"Is this student potentially gifted or talented?",
	} {
		if !strings.Contains(prompt, line) {
			t.Errorf("prompt missing %q", line)
		}
	}
}

// ctxRecorder captures what the classifier put on the context.
type ctxRecorder struct {
	purpose     string
	hasDeadline bool
}

func (r *ctxRecorder) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	r.purpose = llm.PurposeFrom(ctx)
	_, r.hasDeadline = ctx.Deadline()
	return &llm.Response{Content: []byte("No")}, nil
}

func (r *ctxRecorder) ModelID() string { return "recorder" }

func TestClassify_ContextCarriesPurposeAndTimeout(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{"with timeout", time.Second, true},
		{"no timeout", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ctxRecorder{}
			cfg := DefaultConfig()
			cfg.Timeout = tt.timeout

			if _, err := New(rec, cfg).Classify(context.Background(), mustProfile(t, `{}`)); err != nil {
				t.Fatalf("classify: %v", err)
			}
			if rec.purpose != Purpose {
				t.Errorf("purpose = %q, want %q", rec.purpose, Purpose)
			}
			if rec.hasDeadline != tt.wantDeadline {
				t.Errorf("hasDeadline = %v, want %v", rec.hasDeadline, tt.wantDeadline)
			}
		})
	}
}

func TestClassify_Structured(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"is_gifted":true,"reason":" Reads two grades ahead. "}`))
	cfg := DefaultConfig()
	cfg.Structured = true

	v, err := New(mock, cfg).Classify(context.Background(), mustProfile(t, `{"StudentID":7}`))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got := student.Display(v.StudentID); got != "7" {
		t.Errorf("StudentID = %q, want %q", got, "7")
	}
	if !v.IsGiftedByAI {
		t.Error("IsGiftedByAI = false, want true")
	}
	if v.AIReason != "Reads two grades ahead." {
		t.Errorf("AIReason = %q, want %q", v.AIReason, "Reads two grades ahead.")
	}

	req, _ := mock.LastCall()
	if req.Schema != VerdictSchema {
		t.Errorf("Schema = %p, want VerdictSchema", req.Schema)
	}
}

func TestClassify_StructuredInvalidReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`Yes, obviously.`))
	cfg := DefaultConfig()
	cfg.Structured = true

	_, err := New(mock, cfg).Classify(context.Background(), mustProfile(t, `{}`))
	var invErr *llm.ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *llm.ErrInvalidResponse", err)
	}
}

func TestBuildPrompt_AbsentFields(t *testing.T) {
	prompt, err := BuildPrompt(mustProfile(t, `{"Name":"Sam","GPA":null}`))
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}

	for _, want := range []string{"Name: Sam\n", "GPA: None\n", "Teacher Notes: None\n"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasPrefix(prompt, "Analyze the following student profile") {
		t.Errorf("prompt has unexpected prefix: %q", prompt)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GIFTED_AI_STRUCTURED", "true")
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if !cfg.Structured {
		t.Error("Structured = false, want true")
	}
	if cfg.MaxTokens != 150 {
		t.Errorf("MaxTokens = %d, want 150", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}

	t.Setenv("GIFTED_AI_STRUCTURED", "perhaps")
	if _, err := ConfigFromEnv(); err == nil {
		t.Error("expected error for invalid GIFTED_AI_STRUCTURED, got nil")
	}
}
