package observability

import (
	"context"
	"time"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/storage"
)

// Store operation label values.
const (
	OpListSince      = "transfers_list_since"
	OpCount          = "transfers_count"
	OpListPositive   = "accounts_list_positive"
	OpGetByAddresses = "accounts_get_by_addresses"
)

type instrumentedTransfers struct {
	next    storage.TransferReader
	metrics *Metrics
	backend string
}

// InstrumentTransfers wraps a transfer reader so every call is timed and counted.
func InstrumentTransfers(next storage.TransferReader, m *Metrics, backend string) storage.TransferReader {
	if m == nil {
		return next
	}
	return &instrumentedTransfers{next: next, metrics: m, backend: backend}
}

func (r *instrumentedTransfers) ListSince(ctx context.Context, minTimestamp int64, limit, offset int) ([]*domain.Transfer, error) {
	start := time.Now()
	rows, err := r.next.ListSince(ctx, minTimestamp, limit, offset)
	r.metrics.RecordStoreCall(r.backend, OpListSince, time.Since(start).Seconds(), len(rows), err)
	return rows, err
}

func (r *instrumentedTransfers) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := r.next.Count(ctx)
	r.metrics.RecordStoreCall(r.backend, OpCount, time.Since(start).Seconds(), 1, err)
	return n, err
}

type instrumentedAccounts struct {
	next    storage.AccountReader
	metrics *Metrics
	backend string
}

// InstrumentAccounts wraps an account reader so every call is timed and counted.
func InstrumentAccounts(next storage.AccountReader, m *Metrics, backend string) storage.AccountReader {
	if m == nil {
		return next
	}
	return &instrumentedAccounts{next: next, metrics: m, backend: backend}
}

func (r *instrumentedAccounts) ListPositive(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	start := time.Now()
	rows, err := r.next.ListPositive(ctx, limit, offset)
	r.metrics.RecordStoreCall(r.backend, OpListPositive, time.Since(start).Seconds(), len(rows), err)
	return rows, err
}

func (r *instrumentedAccounts) GetByAddresses(ctx context.Context, addresses []string) ([]*domain.Account, error) {
	start := time.Now()
	rows, err := r.next.GetByAddresses(ctx, addresses)
	r.metrics.RecordStoreCall(r.backend, OpGetByAddresses, time.Since(start).Seconds(), len(rows), err)
	return rows, err
}

// Compile-time interface checks.
var (
	_ storage.TransferReader = (*instrumentedTransfers)(nil)
	_ storage.AccountReader  = (*instrumentedAccounts)(nil)
)
