package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// Upsert inserts or replaces accounts keyed by (chain, address) in one transaction.
func (s *AccountStore) Upsert(ctx context.Context, accounts []*domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range accounts {
		if a == nil || a.Chain == "" || a.Address == "" || a.Balance == nil {
			return storage.ErrInvalidInput
		}
		batch.Queue(`
			INSERT INTO accounts (chain, address, balance, transfer_count, last_block, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (chain, address) DO UPDATE SET
				balance = EXCLUDED.balance,
				transfer_count = EXCLUDED.transfer_count,
				last_block = EXCLUDED.last_block,
				updated_at = EXCLUDED.updated_at
		`,
			a.Chain,
			strings.ToLower(a.Address),
			toNumeric(a.Balance),
			a.TransferCount,
			int64(a.LastBlock),
			a.UpdatedAt,
		)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert accounts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListPositive retrieves one page of accounts with a positive balance.
func (s *AccountStore) ListPositive(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT chain, address, balance, transfer_count, last_block, updated_at
		FROM accounts
		WHERE balance > 0
		ORDER BY balance DESC, chain ASC, address ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list positive accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// GetByAddresses retrieves all rows whose address is in addresses.
// Callers bound the list size; the whole list travels as one array parameter.
func (s *AccountStore) GetByAddresses(ctx context.Context, addresses []string) ([]*domain.Account, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	lowered := make([]string, len(addresses))
	for i, addr := range addresses {
		lowered[i] = strings.ToLower(addr)
	}

	query := `
		SELECT chain, address, balance, transfer_count, last_block, updated_at
		FROM accounts
		WHERE address = ANY($1)
		ORDER BY address ASC, chain ASC
	`

	rows, err := s.pool.Query(ctx, query, lowered)
	if err != nil {
		return nil, fmt.Errorf("get accounts by addresses: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// scanAccounts scans multiple rows into a slice of Account.
func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account

	for rows.Next() {
		var (
			a         domain.Account
			balance   pgtype.Numeric
			lastBlock int64
		)

		if err := rows.Scan(&a.Chain, &a.Address, &balance, &a.TransferCount, &lastBlock, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}

		a.LastBlock = uint64(lastBlock)
		b, err := fromNumeric(balance)
		if err != nil {
			return nil, fmt.Errorf("decode balance of %s/%s: %w", a.Chain, a.Address, err)
		}
		a.Balance = b

		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}
