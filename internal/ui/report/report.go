// Package report renders verdicts and LLM call log summaries for the
// terminal.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/gifted/internal/classifier"
	"github.com/abhisek/gifted/internal/llm"
	"github.com/abhisek/gifted/internal/rules"
	"github.com/abhisek/gifted/internal/store"
	"github.com/abhisek/gifted/internal/student"
	"github.com/abhisek/gifted/internal/ui/theme"
)

// RuleVerdict renders a rule-based verdict as a card.
func RuleVerdict(v *rules.Verdict) string {
	lines := []string{
		theme.Title.Render("Rule evaluation"),
		field("Student", student.Display(v.StudentID)),
		field("Verdict", verdictText(v.IsGiftedByRules)),
	}
	if len(v.RuleReasons) == 0 {
		lines = append(lines, field("Reasons", theme.Hint.Render("no rule matched")))
	}
	for i, r := range v.RuleReasons {
		label := ""
		if i == 0 {
			label = "Reasons"
		}
		lines = append(lines, field(label, "• "+r))
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// AIVerdict renders an AI verdict as a card.
func AIVerdict(v *classifier.Verdict) string {
	reason := v.AIReason
	if reason == "" {
		reason = theme.Hint.Render("(no justification given)")
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("AI classification"),
		field("Student", student.Display(v.StudentID)),
		field("Verdict", verdictText(v.IsGiftedByAI)),
		field("Reason", reason),
	))
}

// Failure renders an error line.
func Failure(msg string) string {
	return theme.Failed.Render("✗ " + msg)
}

// Events renders recent LLM calls as a table.
func Events(events []store.LLMEvent) string {
	t := newTable("ID", "Timestamp", "Request", "Provider", "Model", "In", "Out", "Ms", "OK")
	for _, e := range events {
		ok := theme.Gifted.Render("✓")
		if !e.Success {
			ok = theme.Failed.Render("✗")
		}
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.RequestID, 8),
			e.Provider,
			truncate(e.Model, 28),
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			ok,
		)
	}
	return t.String()
}

// Usage renders per-purpose token totals with a TOTAL row.
func Usage(stats []store.PurposeUsage) string {
	t := newTable("Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")

	var calls, failures, in, out int
	for _, st := range stats {
		t.Row(
			st.Purpose,
			strconv.Itoa(st.Calls),
			strconv.Itoa(st.Failures),
			strconv.Itoa(st.InputTokens),
			strconv.Itoa(st.OutputTokens),
			strconv.Itoa(st.InputTokens+st.OutputTokens),
			strconv.FormatInt(st.AvgLatencyMs, 10),
		)
		calls += st.Calls
		failures += st.Failures
		in += st.InputTokens
		out += st.OutputTokens
	}
	t.Row("TOTAL", strconv.Itoa(calls), strconv.Itoa(failures),
		strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out), "")
	return t.String()
}

// Cost renders estimated spend per model. Models missing from the pricing
// table show "?" and are listed in a footnote.
func Cost(usage []store.ModelUsage) string {
	t := newTable("Model", "Calls", "Input", "Output", "Cost")

	var total float64
	var unknown []string
	for _, mu := range usage {
		cost := "?"
		if c := llm.LookupCost(mu.Model); c != nil {
			usd := c.Cost(mu.InputTokens, mu.OutputTokens)
			total += usd
			cost = FormatCost(usd)
		} else {
			unknown = append(unknown, mu.Model)
		}
		t.Row(truncate(mu.Model, 32), strconv.Itoa(mu.Calls),
			strconv.Itoa(mu.InputTokens), strconv.Itoa(mu.OutputTokens), cost)
	}

	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	t.Row(label, "", "", "", FormatCost(total))

	out := t.String()
	if len(unknown) > 0 {
		out += "\n" + theme.Warning.Render("Pricing unavailable for: "+strings.Join(unknown, ", "))
	}
	return out
}

// FormatCost formats a USD amount, keeping sub-cent precision for small
// totals.
func FormatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.TableBorder).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeader
			}
			return theme.TableCell
		})
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, theme.Label.Render(label), value)
}

func verdictText(gifted bool) string {
	if gifted {
		return theme.Gifted.Render("gifted")
	}
	return theme.NotGifted.Render("not gifted")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
