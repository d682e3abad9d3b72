package student

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Profile field names as they appear on the wire.
const (
	FieldStudentID                 = "StudentID"
	FieldName                      = "Name"
	FieldAge                       = "Age"
	FieldGradeLevel                = "GradeLevel"
	FieldMathScore                 = "MathScore"
	FieldEnglishScore              = "EnglishScore"
	FieldGPA                       = "GPA"
	FieldExtracurricularActivities = "ExtracurricularActivities"
	FieldTeacherNotes              = "TeacherNotes"
)

// AbsentValue is how an absent or null field is rendered as text.
const AbsentValue = "None"

// ErrMalformed is returned by Decode when the body is missing, is not JSON,
// is not a JSON object, or carries a field of the wrong type.
var ErrMalformed = errors.New("malformed student profile")

// Profile is a loosely typed student record. It keeps every field as decoded
// so values can be echoed back or rendered without loss; numbers stay as
// json.Number.
type Profile struct {
	fields map[string]any
}

// Decode parses a request body into a Profile. Any failure wraps ErrMalformed.
func Decode(body []byte) (*Profile, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformed)
	}

	if err := validate(obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &Profile{fields: obj}, nil
}

// Value returns the field value and whether it is present and non-null.
func (p *Profile) Value(key string) (any, bool) {
	v, ok := p.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// StudentID returns the StudentID value verbatim, or nil when absent.
func (p *Profile) StudentID() any {
	v, _ := p.Value(FieldStudentID)
	return v
}

// Number returns a numeric field, defaulting to 0 when absent. Literals too
// large for a float64 saturate to +Inf or -Inf rather than collapsing to 0.
func (p *Profile) Number(key string) float64 {
	v, ok := p.Value(key)
	if !ok {
		return 0
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return f
}

// Text returns a text field, defaulting to "" when absent.
func (p *Profile) Text(key string) string {
	v, ok := p.Value(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return Display(v)
}

// Display renders the named field for human-readable output. Absent and null
// fields render as AbsentValue.
func (p *Profile) Display(key string) string {
	v, ok := p.Value(key)
	if !ok {
		return AbsentValue
	}
	return Display(v)
}

// Display renders a decoded JSON value the way it was written: strings
// without quotes, numbers with their original digits.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return AbsentValue
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(string(b))
}
