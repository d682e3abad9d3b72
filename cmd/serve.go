package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/gifted/internal/logging"
	"github.com/abhisek/gifted/internal/rules"
	"github.com/abhisek/gifted/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: "Serve /EvaluateRules and /ClassifyStudentAI (also under /api/) until " +
		"interrupted. Configuration comes from the environment; flags override it.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New("serve")

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		srvCfg, err := server.ConfigFromEnv()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			srvCfg.Addr = addr
		}
		if err := srvCfg.Validate(); err != nil {
			return err
		}

		ruleCfg, err := loadRules(cmd)
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

		c, err := buildClassifier(ctx, events)
		if err != nil {
			return err
		}

		evaluator := rules.NewEvaluator(ruleCfg)
		log.Info("starting",
			slog.String("addr", srvCfg.Addr),
			slog.Any("rules", evaluator.Rules()),
			slog.Bool("auth", srvCfg.FunctionKey != ""),
			slog.Bool("call_log", events != nil),
		)

		return server.New(srvCfg, evaluator, c, logging.New("server")).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides GIFTED_ADDR)")
	serveCmd.Flags().String("rules", "", "YAML rules file (overrides GIFTED_RULES_FILE)")
}
