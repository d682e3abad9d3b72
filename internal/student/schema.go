package student

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const profileSchemaURL = "schema://student-profile.json"

// profileSchema constrains only the fields the evaluators do arithmetic or
// string matching on. Everything else is free-form.
var profileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		FieldMathScore:    map[string]any{"type": []any{"number", "null"}},
		FieldEnglishScore: map[string]any{"type": []any{"number", "null"}},
		FieldGPA:          map[string]any{"type": []any{"number", "null"}},
		FieldTeacherNotes: map[string]any{"type": []any{"string", "null"}},
	},
}

var compiledProfileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(profileSchemaURL, profileSchema); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(profileSchemaURL)
})

func validate(doc map[string]any) error {
	sch, err := compiledProfileSchema()
	if err != nil {
		return fmt.Errorf("compile profile schema: %w", err)
	}
	return sch.Validate(doc)
}
