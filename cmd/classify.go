package cmd

import (
	"encoding/json"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/gifted/internal/ui/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file|-]",
	Short: "Ask the configured LLM whether a student profile looks gifted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readProfile(cmd, args)
		if err != nil {
			return err
		}

		events, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		if events != nil {
			defer events.Close()
		}

		c, err := buildClassifier(cmd.Context(), events)
		if err != nil {
			return err
		}

		v, err := c.Classify(cmd.Context(), p)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(v)
		}
		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), report.AIVerdict(v))
		return err
	},
}

func init() {
	classifyCmd.Flags().Bool("json", false, "Print the verdict as JSON")
}
