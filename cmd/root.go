package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/gifted/internal/logging"
	"github.com/abhisek/gifted/internal/ui/report"
)

var rootCmd = &cobra.Command{
	Use:   "gifted",
	Short: "Student giftedness screening service",
	Long: "Gifted screens student profiles for giftedness with threshold rules " +
		"and an LLM classifier, over HTTP or from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(cmd); err != nil {
			return err
		}
		return initLogging(cmd)
	},
}

// Execute runs the root command and prints any error as a failure line on
// stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		lipgloss.Fprintln(rootCmd.ErrOrStderr(), report.Failure(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file (default: .env if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides GIFTED_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides GIFTED_LOG_FORMAT)")
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite LLM call log (overrides GIFTED_EVENT_DB)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvFile loads --env-file, or ./.env when the flag is unset and the
// file exists. Variables already set in the environment win.
func loadEnvFile(cmd *cobra.Command) error {
	if p, _ := cmd.Flags().GetString("env-file"); p != "" {
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func initLogging(cmd *cobra.Command) error {
	levelName := flagOrEnv(cmd, "log-level", "GIFTED_LOG_LEVEL")
	if levelName == "" {
		levelName = "info"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}

	format := flagOrEnv(cmd, "log-format", "GIFTED_LOG_FORMAT")
	switch format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	logging.Init(level, format, os.Stderr)
	return nil
}

// flagOrEnv returns the flag value if set, else the environment variable.
func flagOrEnv(cmd *cobra.Command, flag, env string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return os.Getenv(env)
}
