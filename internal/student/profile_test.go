package student

import (
	"errors"
	"math"
	"testing"
)

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"not json", "student=S1"},
		{"truncated", `{"StudentID": "S1"`},
		{"array", `[{"StudentID":"S1"}]`},
		{"scalar", `42`},
		{"null", `null`},
		{"string score", `{"MathScore":"95"}`},
		{"bool gpa", `{"GPA":true}`},
		{"numeric notes", `{"TeacherNotes":12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecode_Defaults(t *testing.T) {
	p, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := p.StudentID(); got != nil {
		t.Errorf("StudentID() = %v, want nil", got)
	}
	if got := p.Number(FieldMathScore); got != 0 {
		t.Errorf("Number(MathScore) = %v, want 0", got)
	}
	if got := p.Number(FieldGPA); got != 0 {
		t.Errorf("Number(GPA) = %v, want 0", got)
	}
	if got := p.Text(FieldTeacherNotes); got != "" {
		t.Errorf("Text(TeacherNotes) = %q, want empty", got)
	}
	if got := p.Display(FieldName); got != AbsentValue {
		t.Errorf("Display(Name) = %q, want %q", got, AbsentValue)
	}
}

func TestDecode_NullTreatedAsAbsent(t *testing.T) {
	p, err := Decode([]byte(`{"MathScore":null,"TeacherNotes":null,"Name":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := p.Number(FieldMathScore); got != 0 {
		t.Errorf("Number(MathScore) = %v, want 0", got)
	}
	if got := p.Text(FieldTeacherNotes); got != "" {
		t.Errorf("Text(TeacherNotes) = %q, want empty", got)
	}
	if got := p.Display(FieldName); got != AbsentValue {
		t.Errorf("Display(Name) = %q, want %q", got, AbsentValue)
	}
}

func TestDecode_PreservesValues(t *testing.T) {
	p, err := Decode([]byte(`{"StudentID":1042,"Name":"Ada","Age":9,"GPA":3.90,"MathScore":95,"TeacherNotes":"Brilliant"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	displays := []struct {
		got, want string
	}{
		{Display(p.StudentID()), "1042"},
		{p.Display(FieldName), "Ada"},
		{p.Display(FieldAge), "9"},
		{p.Display(FieldGPA), "3.90"},
		{p.Text(FieldTeacherNotes), "Brilliant"},
	}
	for _, d := range displays {
		if d.got != d.want {
			t.Errorf("got %q, want %q", d.got, d.want)
		}
	}
	if got := p.Number(FieldGPA); got != 3.9 {
		t.Errorf("Number(GPA) = %v, want 3.9", got)
	}
	if got := p.Number(FieldMathScore); got != 95 {
		t.Errorf("Number(MathScore) = %v, want 95", got)
	}
}

func TestNumber_OutOfRange(t *testing.T) {
	tests := []struct {
		body string
		want float64
	}{
		{`{"MathScore":1e400}`, math.Inf(1)},
		{`{"MathScore":-1e400}`, math.Inf(-1)},
		{`{"MathScore":1e-400}`, 0},
		{`{"MathScore":1.7976931348623157e308}`, math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			p, err := Decode([]byte(tt.body))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := p.Number(FieldMathScore); got != tt.want {
				t.Errorf("Number(MathScore) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, AbsentValue},
		{"chess club", "chess club"},
		{true, "true"},
		{3.5, "3.5"},
		{7, "7"},
		{[]any{"chess", "robotics"}, `["chess","robotics"]`},
	}
	for _, tt := range tests {
		if got := Display(tt.in); got != tt.want {
			t.Errorf("Display(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
