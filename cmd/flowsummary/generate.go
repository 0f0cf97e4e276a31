package main

import (
	"time"

	"github.com/spf13/cobra"

	"token-flow-lab/internal/config"
	"token-flow-lab/internal/fixtures"
	"token-flow-lab/internal/labels"
	"token-flow-lab/internal/notify"
	"token-flow-lab/internal/observability"
	"token-flow-lab/internal/reporting"
	"token-flow-lab/internal/summary"
)

type generateFlags struct {
	output          string
	labels          string
	reportDir       string
	metricsTextfile string
	natsURL         string
	topN            int
	pageSize        int
	useFixtures     bool
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the summary document and write it atomically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd, a.cfg)
			return runGenerate(cmd, a, f.useFixtures)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "path of the JSON document")
	flags.StringVar(&f.labels, "labels", "", "label directory file (YAML or JSON)")
	flags.StringVar(&f.reportDir, "report-dir", "", "directory for markdown and CSV exports")
	flags.StringVar(&f.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	flags.StringVar(&f.natsURL, "nats-url", "", "publish a summary.generated event to this NATS server")
	flags.IntVar(&f.topN, "top-n", 0, "rows per ranking")
	flags.IntVar(&f.pageSize, "page-size", 0, "rows per store page")
	flags.BoolVar(&f.useFixtures, "use-fixtures", false, "run on the in-memory demo ledger")
	return cmd
}

// apply copies explicitly set flags over the loaded config.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output.Path = f.output
	}
	if changed("labels") {
		cfg.Summary.Labels = f.labels
	}
	if changed("report-dir") {
		cfg.Output.ReportDir = f.reportDir
	}
	if changed("metrics-textfile") {
		cfg.Output.MetricsTextfile = f.metricsTextfile
	}
	if changed("nats-url") {
		cfg.NATS.URL = f.natsURL
	}
	if changed("top-n") {
		cfg.Summary.TopN = f.topN
	}
	if changed("page-size") {
		cfg.Summary.PageSize = f.pageSize
	}
	if f.useFixtures {
		cfg.Storage.Accounts = config.BackendMemory
		cfg.Storage.Transfers = config.BackendMemory
	}
}

func runGenerate(cmd *cobra.Command, a *app, useFixtures bool) error {
	if err := a.validate(); err != nil {
		return err
	}
	cfg, log := a.cfg, a.log
	ctx := cmd.Context()

	led, err := openLedger(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer led.Close()

	var loader summary.LabelLoader
	if useFixtures {
		if err := fixtures.Load(ctx, led.transfers, led.accounts, time.Now()); err != nil {
			return err
		}
		loader = func() (labels.Directory, error) { return fixtures.Labels(), nil }
		log.Info("demo ledger loaded")
	}
	if path := cfg.Summary.Labels; path != "" {
		loader = func() (labels.Directory, error) { return labels.Load(path) }
	}

	metrics := observability.NewMetrics("")

	var reports *reporting.Generator
	if cfg.Output.ReportDir != "" {
		reports = reporting.NewGenerator(cfg.Output.ReportDir)
	}

	var notifier summary.Notifier
	if cfg.NATS.URL != "" {
		emitter, err := notify.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			log.Warn("nats unavailable, notifications disabled", "error", err)
		} else {
			defer emitter.Close()
			notifier = emitter
		}
	}

	composer := summary.New(summary.Options{
		Transfers:       observability.InstrumentTransfers(led.transfers, metrics, cfg.Storage.Transfers),
		Accounts:        observability.InstrumentAccounts(led.accounts, metrics, cfg.Storage.Accounts),
		TopN:            cfg.Summary.TopN,
		PageSize:        cfg.Summary.PageSize,
		BatchSize:       cfg.Summary.BatchSize,
		Decimals:        cfg.Token.Decimals,
		Labels:          loader,
		Logger:          log,
		Metrics:         metrics,
		OutputPath:      cfg.Output.Path,
		Reports:         reports,
		MetricsTextfile: cfg.Output.MetricsTextfile,
		Notifier:        notifier,
	})

	result, err := composer.Run(ctx)
	if err != nil {
		return err
	}

	log.Info("summary generated",
		"run_id", result.RunID,
		"path", result.Path,
		"total_transfers", result.Summary.TotalTransfers,
		"side_output_errors", len(result.SideOutputErrors),
	)
	return nil
}
