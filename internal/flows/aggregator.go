package flows

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/storage"
)

// Ranking is the ranked flow table of one window.
type Ranking struct {
	Window  Window
	Entries []*domain.FlowEntry
	// Active is the number of addresses with at least one transfer in the window.
	Active int
}

// Aggregator computes windowed flow rankings from the transfer log.
type Aggregator struct {
	transfers storage.TransferReader
	pageSize  int
	logger    *slog.Logger
}

// NewAggregator creates a new flow aggregator. pageSize <= 0 uses storage.DefaultPageSize.
func NewAggregator(transfers storage.TransferReader, pageSize int, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		transfers: transfers,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// FetchSince reads every transfer with timestamp >= cutoff, in ledger order.
// Pages are requested one after another until a short page ends the scan.
func (a *Aggregator) FetchSince(ctx context.Context, cutoff int64) ([]*domain.Transfer, error) {
	var all []*domain.Transfer

	fetch := func(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
		return a.transfers.ListSince(ctx, cutoff, limit, offset)
	}
	err := storage.Paginate(ctx, a.pageSize, fetch, func(page []*domain.Transfer) error {
		all = append(all, page...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch transfers since %d: %w", cutoff, err)
	}

	return all, nil
}

// Windows fetches the widest window once and ranks every window from that superset.
// Rankings are returned in the order of windows.
func (a *Aggregator) Windows(ctx context.Context, now time.Time, windows []Window, topN int) ([]Ranking, error) {
	if len(windows) == 0 {
		return nil, nil
	}

	outer := widest(windows)
	transfers, err := a.FetchSince(ctx, outer.Cutoff(now))
	if err != nil {
		return nil, err
	}
	a.logger.Info("transfers fetched", "window", outer.Name, "transfers", len(transfers))

	rankings := make([]Ranking, 0, len(windows))
	for _, w := range windows {
		entries := Compute(transfers, w.Cutoff(now))
		ranked := Rank(entries, topN)
		a.logger.Debug("flow window ranked", "window", w.Name, "active", len(entries), "ranked", len(ranked))

		rankings = append(rankings, Ranking{
			Window:  w,
			Entries: ranked,
			Active:  len(entries),
		})
	}

	return rankings, nil
}
