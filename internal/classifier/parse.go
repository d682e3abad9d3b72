package classifier

import "strings"

// reasonCutset is stripped from both ends of the reason once the verdict
// words are removed.
const reasonCutset = ".:, "

// ParseVerdict scrapes a free-text model reply into a verdict.
//
// The reply counts as gifted when it contains "Yes" anywhere, case-sensitive.
// The reason is the reply with every "Yes" and "No" removed and the leftover
// punctuation trimmed from the ends. A reply of only "Yes." gives an empty
// reason.
//
// This is a heuristic with known failure modes:
//   - "Yesterday" or "not a clear Yes" count as gifted.
//   - "yes" in lower case does not.
//   - Words containing "No" or "Yes" lose those letters in the reason
//     ("Notable" becomes "table").
//
// Structured mode avoids all of these; see Config.Structured.
func ParseVerdict(text string) (gifted bool, reason string) {
	text = strings.TrimSpace(text)
	gifted = strings.Contains(text, "Yes")

	reason = strings.ReplaceAll(text, "Yes", "")
	reason = strings.ReplaceAll(reason, "No", "")
	reason = strings.Trim(reason, reasonCutset)
	return gifted, strings.TrimSpace(reason)
}
