package rules

import (
	"strings"

	"github.com/abhisek/gifted/internal/student"
)

// Rule is a single giftedness criterion. Rules are independent: a profile is
// flagged when any rule matches.
type Rule interface {
	Name() string
	Reason() string
	Matches(p *student.Profile) bool
}

// DefaultRules returns the rules in evaluation order. Reasons are reported
// in this order.
func DefaultRules(cfg Config) []Rule {
	return []Rule{
		&ScoreRule{
			MinMath:    cfg.MinMathScore,
			MinEnglish: cfg.MinEnglishScore,
			MinGPA:     cfg.MinGPA,
		},
		NewKeywordRule(cfg.GiftedKeywords),
	}
}

// ScoreRule matches when math score, English score and GPA all meet their
// thresholds. Missing values count as zero.
type ScoreRule struct {
	MinMath    float64
	MinEnglish float64
	MinGPA     float64
}

func (r *ScoreRule) Name() string   { return "scores" }
func (r *ScoreRule) Reason() string { return "High Scores and GPA met thresholds." }

func (r *ScoreRule) Matches(p *student.Profile) bool {
	return p.Number(student.FieldMathScore) >= r.MinMath &&
		p.Number(student.FieldEnglishScore) >= r.MinEnglish &&
		p.Number(student.FieldGPA) >= r.MinGPA
}

// KeywordRule matches when the teacher notes contain any keyword as a
// case-insensitive substring. There is no word tokenization, so "advanced"
// also matches inside "Advanced-level".
type KeywordRule struct {
	keywords []string
}

// NewKeywordRule lower-cases and copies the keyword list.
func NewKeywordRule(keywords []string) *KeywordRule {
	kw := make([]string, len(keywords))
	for i, k := range keywords {
		kw[i] = strings.ToLower(k)
	}
	return &KeywordRule{keywords: kw}
}

func (r *KeywordRule) Name() string   { return "keywords" }
func (r *KeywordRule) Reason() string { return "Teacher notes contain gifted keywords." }

func (r *KeywordRule) Matches(p *student.Profile) bool {
	notes := strings.ToLower(p.Text(student.FieldTeacherNotes))
	if notes == "" {
		return false
	}
	for _, k := range r.keywords {
		if strings.Contains(notes, k) {
			return true
		}
	}
	return false
}
