package llm

import (
	"context"
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_gifted":  map[string]any{"type": "boolean"},
			"reason":     map[string]any{"type": "string", "description": "One or two sentences."},
			"confidence": map[string]any{"type": "string", "enum": []any{"low", "medium", "high"}},
			"signals": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"score": map[string]any{"type": "number"},
		},
		"required": []any{"is_gifted", "reason"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Fatalf("expected 5 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["is_gifted"].Type != "BOOLEAN" {
		t.Fatalf("expected BOOLEAN for is_gifted, got %s", schema.Properties["is_gifted"].Type)
	}
	if schema.Properties["reason"].Description != "One or two sentences." {
		t.Fatalf("expected description to carry over, got %q", schema.Properties["reason"].Description)
	}
	if len(schema.Properties["confidence"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["confidence"].Enum))
	}
	if schema.Properties["signals"].Items.Type != "STRING" {
		t.Fatalf("expected STRING for signals items, got %s", schema.Properties["signals"].Items.Type)
	}
	if schema.Properties["score"].Type != "NUMBER" {
		t.Fatalf("expected NUMBER for score, got %s", schema.Properties["score"].Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
