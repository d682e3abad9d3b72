package classifier

import "testing"

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantGifted bool
		wantReason string
	}{
		{
			name:       "negative reply",
			text:       "No, the profile does not show strong indicators.",
			wantGifted: false,
			wantReason: "the profile does not show strong indicators",
		},
		{
			name:       "positive reply",
			text:       "Yes. The student shows exceptional mathematical reasoning.",
			wantGifted: true,
			wantReason: "The student shows exceptional mathematical reasoning",
		},
		{
			name:       "colon separator",
			text:       "Yes: strong creativity and leadership.",
			wantGifted: true,
			wantReason: "strong creativity and leadership",
		},
		{
			name:       "surrounding whitespace",
			text:       "\n  Yes, advanced for their age.  \n",
			wantGifted: true,
			wantReason: "advanced for their age",
		},
		{
			name:       "bare yes leaves empty reason",
			text:       "Yes.",
			wantGifted: true,
			wantReason: "",
		},
		{
			name:       "punctuation only",
			text:       "No.:",
			wantGifted: false,
			wantReason: "",
		},
		{
			name:       "empty reply",
			text:       "",
			wantGifted: false,
			wantReason: "",
		},
		{
			name:       "lower case yes is not a match",
			text:       "yes, clearly gifted.",
			wantGifted: false,
			wantReason: "yes, clearly gifted",
		},
		{
			name:       "yesterday false positive",
			text:       "Yesterday's results are average.",
			wantGifted: true,
			wantReason: "terday's results are average",
		},
		{
			name:       "negated yes false positive",
			text:       "This is not a clear Yes.",
			wantGifted: true,
			wantReason: "This is not a clear",
		},
		{
			name:       "No inside a word is stripped",
			text:       "No. Notable effort but average scores.",
			wantGifted: false,
			wantReason: "table effort but average scores",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gifted, reason := ParseVerdict(tt.text)
			if gifted != tt.wantGifted {
				t.Errorf("ParseVerdict(%q) gifted = %v, want %v", tt.text, gifted, tt.wantGifted)
			}
			if reason != tt.wantReason {
				t.Errorf("ParseVerdict(%q) reason = %q, want %q", tt.text, reason, tt.wantReason)
			}
		})
	}
}
