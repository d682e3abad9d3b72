package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/gifted/internal/store"
	"github.com/abhisek/gifted/internal/ui/report"
	"github.com/abhisek/gifted/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM call log",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := requireEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			_, err = lipgloss.Fprintln(out, theme.Hint.Render("No LLM calls recorded."))
			return err
		}
		_, err = lipgloss.Fprintln(out, report.Events(events))
		return err
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()

		stats, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			_, err = lipgloss.Fprintln(out, theme.Hint.Render("No LLM usage recorded yet."))
			return err
		}

		modelUsage, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		lipgloss.Fprintln(out, theme.Title.Render("Usage by Purpose"))
		lipgloss.Fprintln(out, report.Usage(stats))
		lipgloss.Fprintln(out)
		lipgloss.Fprintln(out, theme.Title.Render("Estimated Cost (USD)"))
		_, err = lipgloss.Fprintln(out, report.Cost(modelUsage))
		return err
	},
}

// requireEventStore opens the call log, failing if none is configured.
func requireEventStore(cmd *cobra.Command) (*store.Store, error) {
	s, err := openEventStore(cmd)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("no call log configured: pass --db or set GIFTED_EVENT_DB")
	}
	return s, nil
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. gifted-classification)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
