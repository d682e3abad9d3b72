package rules

import "github.com/abhisek/gifted/internal/student"

// Verdict is the rule-based giftedness result. IsGiftedByRules is true
// exactly when RuleReasons is non-empty.
type Verdict struct {
	StudentID       any      `json:"StudentID"`
	IsGiftedByRules bool     `json:"IsGiftedByRules"`
	RuleReasons     []string `json:"RuleReasons"`
}

// Evaluator applies a fixed rule set. It holds no mutable state and is safe
// for concurrent use.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator creates an evaluator with DefaultRules for cfg.
func NewEvaluator(cfg Config) *Evaluator {
	return NewEvaluatorWithRules(DefaultRules(cfg)...)
}

// NewEvaluatorWithRules creates an evaluator over a custom rule list.
func NewEvaluatorWithRules(rules ...Rule) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate runs every rule and collects the reasons of those that matched.
func (e *Evaluator) Evaluate(p *student.Profile) *Verdict {
	reasons := []string{}
	for _, r := range e.rules {
		if r.Matches(p) {
			reasons = append(reasons, r.Reason())
		}
	}
	return &Verdict{
		StudentID:       p.StudentID(),
		IsGiftedByRules: len(reasons) > 0,
		RuleReasons:     reasons,
	}
}

// Rules returns the names of the configured rules in evaluation order.
func (e *Evaluator) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}
