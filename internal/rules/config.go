package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the thresholds and keywords the rules are evaluated against.
// It is built once at start-up and handed to NewEvaluator by value.
type Config struct {
	MinMathScore    float64  `yaml:"min_math_score"`
	MinEnglishScore float64  `yaml:"min_english_score"`
	MinGPA          float64  `yaml:"min_gpa"`
	GiftedKeywords  []string `yaml:"keywords_gifted"`
}

// DefaultConfig returns the built-in thresholds.
func DefaultConfig() Config {
	return Config{
		MinMathScore:    90,
		MinEnglishScore: 90,
		MinGPA:          3.8,
		GiftedKeywords:  []string{"prodigy", "exceptional", "advanced", "brilliant"},
	}
}

// LoadConfig reads a YAML rules file on top of the defaults. Keys missing from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects negative thresholds and blank keywords.
func (c Config) Validate() error {
	if c.MinMathScore < 0 || c.MinEnglishScore < 0 || c.MinGPA < 0 {
		return fmt.Errorf("thresholds must not be negative")
	}
	if len(c.GiftedKeywords) == 0 {
		return fmt.Errorf("at least one gifted keyword is required")
	}
	for i, k := range c.GiftedKeywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("keyword %d is blank", i)
		}
	}
	return nil
}
