package storage

import (
	"context"

	"token-flow-lab/internal/domain"
)

// TransferReader is the read side of the transfers log.
type TransferReader interface {
	// ListSince retrieves transfers with timestamp >= minTimestamp, ordered by
	// (timestamp, chain, block_number, log_index) ASC, skipping offset rows and
	// returning at most limit rows.
	ListSince(ctx context.Context, minTimestamp int64, limit, offset int) ([]*domain.Transfer, error)

	// Count returns the total number of transfers, computed by the store.
	Count(ctx context.Context) (int64, error)
}

// TransferStore provides access to transfers storage.
type TransferStore interface {
	TransferReader

	// InsertBulk adds multiple transfers atomically. Fails entire batch on any duplicate transfer_id.
	InsertBulk(ctx context.Context, transfers []*domain.Transfer) error
}

// AccountReader is the read side of the balance ledger.
type AccountReader interface {
	// ListPositive retrieves accounts with balance > 0, ordered by balance DESC
	// then (chain, address) ASC, skipping offset rows and returning at most limit rows.
	ListPositive(ctx context.Context, limit, offset int) ([]*domain.Account, error)

	// GetByAddresses retrieves every (chain, address) row whose address is in addresses.
	// Addresses without rows are simply absent from the result.
	GetByAddresses(ctx context.Context, addresses []string) ([]*domain.Account, error)
}

// AccountStore provides access to accounts storage.
type AccountStore interface {
	AccountReader

	// Upsert inserts or replaces accounts keyed by (chain, address).
	Upsert(ctx context.Context, accounts []*domain.Account) error
}
