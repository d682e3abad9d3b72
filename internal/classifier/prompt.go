package classifier

import (
	"bytes"
	"text/template"

	"github.com/abhisek/gifted/internal/student"
)

// SystemPrompt sets the model's role for every classification request.
const SystemPrompt = "You are an AI assistant helping to identify gifted students based on provided profiles."

var profileTemplate = template.Must(template.New("profile").Parse(`Analyze the following student profile to determine if they exhibit characteristics of a gifted or talented student.
Focus on academic achievements, unique interests, critical thinking, creativity, and teacher observations.
Respond with "Yes" or "No" and provide a brief justification (1-2 sentences).

Student Profile:
Name: {{.Name}}
Age: {{.Age}}
Grade Level: {{.GradeLevel}}
Math Score: {{.MathScore}}
English Score: {{.EnglishScore}}
GPA: {{.GPA}}
Extracurricular Activities: {{.Extracurriculars}}
Teacher Notes: {{.TeacherNotes}}

Is this student potentially gifted or talented?
`))

// promptData holds the profile fields already rendered as text.
type promptData struct {
	Name             string
	Age              string
	GradeLevel       string
	MathScore        string
	EnglishScore     string
	GPA              string
	Extracurriculars string
	TeacherNotes     string
}

// BuildPrompt renders the user message for a profile. Field values appear
// as they were sent; absent fields appear as student.AbsentValue.
func BuildPrompt(p *student.Profile) (string, error) {
	data := promptData{
		Name:             p.Display(student.FieldName),
		Age:              p.Display(student.FieldAge),
		GradeLevel:       p.Display(student.FieldGradeLevel),
		MathScore:        p.Display(student.FieldMathScore),
		EnglishScore:     p.Display(student.FieldEnglishScore),
		GPA:              p.Display(student.FieldGPA),
		Extracurriculars: p.Display(student.FieldExtracurricularActivities),
		TeacherNotes:     p.Display(student.FieldTeacherNotes),
	}

	var buf bytes.Buffer
	if err := profileTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
