package cmd

import (
	"encoding/json"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/gifted/internal/rules"
	"github.com/abhisek/gifted/internal/ui/report"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [file|-]",
	Short: "Apply the giftedness rules to a student profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ruleCfg, err := loadRules(cmd)
		if err != nil {
			return err
		}

		p, err := readProfile(cmd, args)
		if err != nil {
			return err
		}

		v := rules.NewEvaluator(ruleCfg).Evaluate(p)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(v)
		}
		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), report.RuleVerdict(v))
		return err
	},
}

func init() {
	evaluateCmd.Flags().Bool("json", false, "Print the verdict as JSON")
	evaluateCmd.Flags().String("rules", "", "YAML rules file (overrides GIFTED_RULES_FILE)")
}
