package report

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/gifted/internal/classifier"
	"github.com/abhisek/gifted/internal/rules"
	"github.com/abhisek/gifted/internal/store"
)

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRuleVerdict(t *testing.T) {
	tests := []struct {
		name  string
		v     *rules.Verdict
		wants []string
	}{
		{
			name: "gifted with reasons",
			v: &rules.Verdict{
				StudentID:       "S1",
				IsGiftedByRules: true,
				RuleReasons:     []string{"High Scores and GPA met thresholds.", "Teacher notes contain gifted keywords."},
			},
			wants: []string{"S1", "gifted", "High Scores and GPA met thresholds.", "Teacher notes contain gifted keywords."},
		},
		{
			name:  "no match",
			v:     &rules.Verdict{RuleReasons: []string{}},
			wants: []string{"None", "not gifted", "no rule matched"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContains(t, RuleVerdict(tt.v), tt.wants...)
		})
	}
}

func TestAIVerdict(t *testing.T) {
	out := AIVerdict(&classifier.Verdict{StudentID: "N/A", IsGiftedByAI: false})
	assertContains(t, out, "N/A", "not gifted", "no justification given")
}

func TestFailure(t *testing.T) {
	out := Failure(`read profile: open missing.json: no such file or directory`)
	assertContains(t, out, "✗ read profile: open missing.json")
}

func TestEvents(t *testing.T) {
	out := Events([]store.LLMEvent{{
		ID:        3,
		Timestamp: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			RequestID:    "0f8fad5b-d9cb-469f-a165-70867728950e",
			Provider:     "azure",
			Model:        "gpt-35-turbo",
			InputTokens:  140,
			OutputTokens: 22,
			LatencyMs:    812,
			Success:      true,
		},
	}})
	assertContains(t, out, "0f8fad5b", "gpt-35-turbo", "812")
	if strings.Contains(out, "0f8fad5b-d9cb") {
		t.Errorf("request id not truncated:\n%s", out)
	}
}

func TestUsage(t *testing.T) {
	out := Usage([]store.PurposeUsage{
		{Purpose: "gifted-classification", Calls: 3, Failures: 1, InputTokens: 300, OutputTokens: 60, AvgLatencyMs: 700},
	})
	assertContains(t, out, "gifted-classification", "TOTAL", "360")
}

func TestCost(t *testing.T) {
	out := Cost([]store.ModelUsage{
		{Model: "gpt-35-turbo", Calls: 2, InputTokens: 1_000_000, OutputTokens: 0},
		{Model: "my-deployment", Calls: 1, InputTokens: 10, OutputTokens: 10},
	})
	assertContains(t, out, "$0.50", "TOTAL (partial)", "Pricing unavailable for: my-deployment")
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		usd  float64
		want string
	}{
		{0.0012, "$0.0012"},
		{1.5, "$1.50"},
	}
	for _, tt := range tests {
		if got := FormatCost(tt.usd); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.usd, got, tt.want)
		}
	}
}
