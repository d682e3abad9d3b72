package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func verdictTestSchema() *Schema {
	return &Schema{
		Name:        "test-verdict",
		Description: "A gifted verdict",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"is_gifted":  map[string]any{"type": "boolean"},
				"reason":     map[string]any{"type": "string"},
				"confidence": map[string]any{"type": "string", "enum": []any{"low", "medium", "high"}},
			},
			"required": []any{"is_gifted", "reason"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"is_gifted":true,"reason":"Top scores.","confidence":"high"}`)
	if err := validateResponse(verdictTestSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptional(t *testing.T) {
	raw := json.RawMessage(`{"is_gifted":false,"reason":"Average profile."}`)
	if err := validateResponse(verdictTestSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"is_gifted":true}`},
		{"wrong type", `{"is_gifted":"yes","reason":"x"}`},
		{"invalid enum", `{"is_gifted":true,"reason":"x","confidence":"certain"}`},
		{"malformed json", `{not json}`},
		{"free text", `Yes. Strong scores.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(verdictTestSchema(), json.RawMessage(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
		})
	}
}

func TestValidateResponse_EmptyResponse(t *testing.T) {
	if err := validateResponse(verdictTestSchema(), json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`anything goes`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "test-nested",
		Description: "Nested test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"student": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{"type": "string"},
					},
					"required": []any{"id"},
				},
				"scores": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"student", "scores"},
		},
	}

	valid := json.RawMessage(`{"student":{"id":"S1"},"scores":[96,92]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"student":{"id":"S1"},"scores":["high","low"]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}
