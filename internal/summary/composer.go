// Package summary composes the flow and holder rankings into the published document.
// It coordinates: flow windows → top holders → transfer count → balances → labels
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"token-flow-lab/internal/amount"
	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/flows"
	"token-flow-lab/internal/holders"
	"token-flow-lab/internal/labels"
	"token-flow-lab/internal/observability"
	"token-flow-lab/internal/reporting"
	"token-flow-lab/internal/storage"
)

// LabelLoader returns the label directory. It is called once per Build.
type LabelLoader func() (labels.Directory, error)

// Notifier is told about every document written by Run.
type Notifier interface {
	SummaryGenerated(ctx context.Context, runID, path string, doc *domain.Summary) error
}

// Composer builds summary documents from the ledger store.
type Composer struct {
	// Stores
	transfers storage.TransferReader
	accounts  storage.AccountReader

	// Tuning
	topN      int
	pageSize  int
	batchSize int
	decimals  int32

	// Collaborators
	labels  LabelLoader
	clock   func() time.Time
	logger  *slog.Logger
	metrics *observability.Metrics

	// Outputs
	outputPath      string
	reports         *reporting.Generator
	metricsTextfile string
	notifier        Notifier
}

// Options for creating Composer.
type Options struct {
	// Required stores
	Transfers storage.TransferReader
	Accounts  storage.AccountReader

	// Tuning; zero values select the package defaults
	TopN      int
	PageSize  int
	BatchSize int
	Decimals  int32

	// Collaborators; all optional
	Labels  LabelLoader
	Clock   func() time.Time
	Logger  *slog.Logger
	Metrics *observability.Metrics

	// Outputs used by Run
	OutputPath      string
	Reports         *reporting.Generator // nil disables markdown/CSV exports
	MetricsTextfile string               // empty disables the textfile
	Notifier        Notifier             // nil disables notifications
}

// New creates a new Composer.
func New(opts Options) *Composer {
	c := &Composer{
		transfers:       opts.Transfers,
		accounts:        opts.Accounts,
		topN:            opts.TopN,
		pageSize:        opts.PageSize,
		batchSize:       opts.BatchSize,
		decimals:        opts.Decimals,
		labels:          opts.Labels,
		clock:           opts.Clock,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		outputPath:      opts.OutputPath,
		reports:         opts.Reports,
		metricsTextfile: opts.MetricsTextfile,
		notifier:        opts.Notifier,
	}

	if c.topN <= 0 {
		c.topN = flows.DefaultTopN
	}
	if c.pageSize <= 0 {
		c.pageSize = storage.DefaultPageSize
	}
	if c.batchSize <= 0 {
		c.batchSize = holders.DefaultBatchSize
	}
	if c.decimals <= 0 {
		c.decimals = amount.TokenDecimals
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Build computes a fresh document. Any store failure aborts the build.
func (c *Composer) Build(ctx context.Context) (*domain.Summary, error) {
	return c.build(ctx, c.logger)
}

func (c *Composer) build(ctx context.Context, log *slog.Logger) (*domain.Summary, error) {
	now := c.clock().UTC()

	// Flow windows, from one fetch of the widest window
	aggregator := flows.NewAggregator(c.transfers, c.pageSize, log)
	rankings, err := aggregator.Windows(ctx, now, []flows.Window{flows.Window7d, flows.Window30d}, c.topN)
	if err != nil {
		return nil, fmt.Errorf("compute flows: %w", err)
	}
	week, month := rankings[0], rankings[1]

	// Top holders
	top, err := holders.NewTopHolders(c.accounts, c.pageSize, log).Top(ctx, c.topN)
	if err != nil {
		return nil, fmt.Errorf("compute top holders: %w", err)
	}

	total, err := c.transfers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transfers: %w", err)
	}

	// Current balances of every flow-ranked address
	balances, err := holders.NewEnricher(c.accounts, c.batchSize).Balances(ctx, flowAddresses(week, month))
	if err != nil {
		return nil, fmt.Errorf("enrich balances: %w", err)
	}

	doc := &domain.Summary{
		Top7d:          c.flowRows(week.Entries, balances),
		Top30d:         c.flowRows(month.Entries, balances),
		TopHolders:     c.holderRows(top),
		SyncedAt:       now.Format(time.RFC3339),
		TotalTransfers: total,
	}
	doc.Labels = c.loadLabels(log).Subset(doc.Addresses())

	log.Info("summary built",
		"top_7d", len(doc.Top7d),
		"active_7d", week.Active,
		"top_30d", len(doc.Top30d),
		"active_30d", month.Active,
		"top_holders", len(doc.TopHolders),
		"labels", len(doc.Labels),
		"total_transfers", total,
	)
	return doc, nil
}

// loadLabels never fails the run; a broken directory only costs the labels.
func (c *Composer) loadLabels(log *slog.Logger) labels.Directory {
	if c.labels == nil {
		return labels.Directory{}
	}
	dir, err := c.labels()
	if err != nil {
		log.Warn("label directory unavailable, continuing without labels", "error", err)
		return labels.Directory{}
	}
	return dir
}

func flowAddresses(rankings ...flows.Ranking) []string {
	var out []string
	for _, r := range rankings {
		for _, e := range r.Entries {
			out = append(out, e.Address)
		}
	}
	return out
}

func (c *Composer) flowRows(entries []*domain.FlowEntry, balances map[string]*big.Int) []domain.FlowRow {
	rows := make([]domain.FlowRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.FlowRow{
			Address:       e.Address,
			Inflow:        amount.ToDecimalString(e.Inflow, c.decimals),
			Outflow:       amount.ToDecimalString(e.Outflow, c.decimals),
			NetFlow:       amount.ToDecimalString(e.Net(), c.decimals),
			Balance:       amount.ToDecimalString(balances[e.Address], c.decimals),
			TransferCount: e.Count,
			Chains:        e.ChainList(),
		})
	}
	return rows
}

func (c *Composer) holderRows(entries []*domain.HolderEntry) []domain.HolderRow {
	rows := make([]domain.HolderRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.HolderRow{
			Address:       e.Address,
			Balance:       amount.ToDecimalString(e.Balance, c.decimals),
			TransferCount: e.TransferCount,
			Chains:        e.ChainList(),
		})
	}
	return rows
}

// RunResult contains results from a Run.
type RunResult struct {
	RunID   string
	Path    string
	Summary *domain.Summary

	// Failed optional outputs; the document itself was written.
	SideOutputErrors []string
}

// Run builds a document, writes it atomically to the output path and then
// produces the optional side outputs. A failure before the write leaves the
// previous document in place; side output failures are logged and reported
// in the result without failing the run.
func (c *Composer) Run(ctx context.Context) (*RunResult, error) {
	if c.outputPath == "" {
		return nil, fmt.Errorf("run summary: %w", storage.ErrInvalidInput)
	}

	result := &RunResult{RunID: uuid.NewString(), Path: c.outputPath}
	log := c.logger.With("run_id", result.RunID)
	start := time.Now()

	log.Info("summary run started", "output", c.outputPath)

	doc, err := c.build(ctx, log)
	if err != nil {
		c.recordRun(observability.StatusFailure, start)
		return nil, err
	}
	if err := WriteFile(c.outputPath, doc); err != nil {
		c.recordRun(observability.StatusFailure, start)
		return nil, fmt.Errorf("write summary: %w", err)
	}
	result.Summary = doc
	c.recordRun(observability.StatusSuccess, start)
	if c.metrics != nil {
		c.metrics.RecordDocument(len(doc.Top7d), len(doc.Top30d), len(doc.TopHolders), doc.TotalTransfers)
	}
	log.Info("summary written", "path", c.outputPath, "duration", time.Since(start))

	if c.reports != nil {
		paths, err := c.reports.Generate(doc)
		if err != nil {
			c.sideOutputFailed(log, result, "reports", err)
		} else {
			log.Info("reports written", "files", paths)
		}
	}

	if c.notifier != nil {
		if err := c.notifier.SummaryGenerated(ctx, result.RunID, c.outputPath, doc); err != nil {
			c.sideOutputFailed(log, result, "notify", err)
		}
	}

	// Last, so the textfile includes the other side outputs' errors.
	if c.metrics != nil && c.metricsTextfile != "" {
		if err := c.metrics.WriteTextfile(c.metricsTextfile); err != nil {
			c.sideOutputFailed(log, result, "metrics", err)
		}
	}

	return result, nil
}

func (c *Composer) recordRun(status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordRun(status, time.Since(start).Seconds(), c.clock().Unix())
}

func (c *Composer) sideOutputFailed(log *slog.Logger, result *RunResult, output string, err error) {
	log.Warn("side output failed", "output", output, "error", err)
	result.SideOutputErrors = append(result.SideOutputErrors, fmt.Sprintf("%s: %v", output, err))
	if c.metrics != nil {
		c.metrics.RecordSideOutputError(output)
	}
}
