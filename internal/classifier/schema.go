package classifier

import "github.com/abhisek/gifted/internal/llm"

// VerdictSchema is the structured-output shape used when Config.Structured
// is set.
var VerdictSchema = &llm.Schema{
	Name:        "gifted-verdict",
	Description: "Whether a student profile shows characteristics of a gifted or talented student",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_gifted": map[string]any{
				"type":        "boolean",
				"description": "True if the student is potentially gifted or talented",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Brief justification in one or two sentences",
			},
		},
		"required":             []any{"is_gifted", "reason"},
		"additionalProperties": false,
	},
}

// structuredVerdict is the raw structured reply.
type structuredVerdict struct {
	IsGifted bool   `json:"is_gifted"`
	Reason   string `json:"reason"`
}
