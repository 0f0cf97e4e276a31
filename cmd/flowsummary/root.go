package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"token-flow-lab/internal/config"
	"token-flow-lab/internal/logger"
)

// app carries what every subcommand needs. It is filled by the root command's pre-run hook.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "flowsummary",
		Short: "Rank token flows and holders across chains into a summary document",
		Long: `flowsummary reads the transfer log and balance ledger maintained by the indexer
and writes a JSON document with the top net-flow movers over the last 7 and 30 days,
the top holders across all chains, and labels for the known addresses among them.

Settings come from the YAML file given with --config. Empty DSNs fall back to the
POSTGRES_DSN, CLICKHOUSE_DSN and NATS_URL environment variables; command flags win
over both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(
		newGenerateCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Options{Level: level, Format: cfg.Log.Format})
	return nil
}

func (a *app) validate() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
