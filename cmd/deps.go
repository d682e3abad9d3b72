package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/gifted/internal/classifier"
	"github.com/abhisek/gifted/internal/llm"
	"github.com/abhisek/gifted/internal/logging"
	"github.com/abhisek/gifted/internal/rules"
	"github.com/abhisek/gifted/internal/store"
	"github.com/abhisek/gifted/internal/student"
)

// openEventStore opens the LLM call log if one is configured. It returns
// nil, nil when neither --db nor GIFTED_EVENT_DB is set.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	dsn := flagOrEnv(cmd, "db", "GIFTED_EVENT_DB")
	if dsn == "" {
		return nil, nil
	}
	s, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}
	return s, nil
}

// loadRules builds the rule config from --rules or GIFTED_RULES_FILE,
// falling back to the built-in defaults.
func loadRules(cmd *cobra.Command) (rules.Config, error) {
	path := flagOrEnv(cmd, "rules", "GIFTED_RULES_FILE")
	if path == "" {
		return rules.DefaultConfig(), nil
	}
	cfg, err := rules.LoadConfig(path)
	if err != nil {
		return rules.Config{}, fmt.Errorf("load rules: %w", err)
	}
	return cfg, nil
}

// buildClassifier wires the configured LLM provider into a classifier.
// events may be nil.
func buildClassifier(ctx context.Context, events *store.Store) (*classifier.Classifier, error) {
	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	var repo store.EventRepo
	if events != nil {
		repo = events.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, llmCfg, logging.New("llm"), repo)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	cfg, err := classifier.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Timeout = llmCfg.Timeout

	return classifier.New(provider, cfg), nil
}

// readProfile decodes a profile from a file path, or from stdin when the
// path is "-" or omitted.
func readProfile(cmd *cobra.Command, args []string) (*student.Profile, error) {
	var (
		body []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return student.Decode(body)
}
