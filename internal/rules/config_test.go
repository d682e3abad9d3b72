package rules

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MinMathScore != 90 || cfg.MinEnglishScore != 90 || cfg.MinGPA != 3.8 {
		t.Errorf("thresholds = %v/%v/%v, want 90/90/3.8", cfg.MinMathScore, cfg.MinEnglishScore, cfg.MinGPA)
	}
	want := []string{"prodigy", "exceptional", "advanced", "brilliant"}
	if !slices.Equal(cfg.GiftedKeywords, want) {
		t.Errorf("GiftedKeywords = %q, want %q", cfg.GiftedKeywords, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	path := writeRules(t, "min_gpa: 3.5\nkeywords_gifted: [gifted, talented]\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MinMathScore != 90 {
		t.Errorf("MinMathScore = %v, want default 90", cfg.MinMathScore)
	}
	if cfg.MinGPA != 3.5 {
		t.Errorf("MinGPA = %v, want 3.5", cfg.MinGPA)
	}
	if want := []string{"gifted", "talented"}; !slices.Equal(cfg.GiftedKeywords, want) {
		t.Errorf("GiftedKeywords = %q, want %q", cfg.GiftedKeywords, want)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "min_gpa: [oops"},
		{"negative threshold", "min_math_score: -1\n"},
		{"empty keywords", "keywords_gifted: []\n"},
		{"blank keyword", "keywords_gifted: [\"  \"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeRules(t, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error, got nil")
	}
}
