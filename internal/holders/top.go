package holders

import (
	"context"
	"fmt"
	"log/slog"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/storage"
)

// DefaultTopN is the number of addresses kept in the holder ranking.
const DefaultTopN = 50

// TopHolders ranks addresses by their balance summed across chains.
type TopHolders struct {
	accounts storage.AccountReader
	pageSize int
	logger   *slog.Logger
}

// NewTopHolders creates a holder ranker. pageSize <= 0 uses storage.DefaultPageSize.
func NewTopHolders(accounts storage.AccountReader, pageSize int, logger *slog.Logger) *TopHolders {
	if logger == nil {
		logger = slog.Default()
	}
	return &TopHolders{
		accounts: accounts,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Top scans every positive-balance row and returns the n largest merged holders.
// Any page failure aborts the scan.
func (h *TopHolders) Top(ctx context.Context, n int) ([]*domain.HolderEntry, error) {
	merger := NewMerger()
	rows := 0

	fetch := func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
		return h.accounts.ListPositive(ctx, limit, offset)
	}
	err := storage.Paginate(ctx, h.pageSize, fetch, func(page []*domain.Account) error {
		rows += len(page)
		merger.Add(page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan positive accounts: %w", err)
	}

	ranked := merger.Ranked(n)
	h.logger.Info("holders merged", "rows", rows, "addresses", merger.Len(), "ranked", len(ranked))
	return ranked, nil
}
