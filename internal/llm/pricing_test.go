package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model     string
		wantFound bool
		wantInput float64
	}{
		{"gpt-4o-mini", true, 0.15},
		{"gpt-4o-mini-2024-07-18", true, 0.15},
		{"gpt-35-turbo", true, 0.5},
		{"gpt-4o-2024-08-06", true, 2.5},
		{"claude-haiku-4-5-20251001", true, 1},
		{"my-custom-deployment", false, 0},
		{"mock", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if (c != nil) != tt.wantFound {
				t.Fatalf("LookupCost(%q) found = %v, want %v", tt.model, c != nil, tt.wantFound)
			}
			if c != nil && c.InputPerMTok != tt.wantInput {
				t.Fatalf("expected input price %v, got %v", tt.wantInput, c.InputPerMTok)
			}
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.5, OutputPerMTok: 1.5}
	got := c.Cost(1_000_000, 2_000_000)
	if math.Abs(got-3.5) > 1e-9 {
		t.Fatalf("expected 3.5, got %v", got)
	}
}
