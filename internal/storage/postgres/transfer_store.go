package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/idhash"
	"token-flow-lab/internal/storage"
)

// TransferStore implements storage.TransferStore using PostgreSQL.
type TransferStore struct {
	pool *Pool
}

// NewTransferStore creates a new TransferStore.
func NewTransferStore(pool *Pool) *TransferStore {
	return &TransferStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransferStore = (*TransferStore)(nil)

// InsertBulk adds multiple transfers atomically. Fails entire batch on any duplicate.
func (s *TransferStore) InsertBulk(ctx context.Context, transfers []*domain.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transfers (
			transfer_id, chain, block_number, tx_hash, log_index, block_timestamp, from_address, to_address, value
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, t := range transfers {
		if t == nil || t.Chain == "" || t.Value == nil {
			return storage.ErrInvalidInput
		}
		id := t.ID
		if id == "" {
			id = idhash.ComputeTransferID(t.Chain, t.TxHash, t.LogIndex)
		}

		_, err := tx.Exec(ctx, query,
			id,
			t.Chain,
			int64(t.BlockNumber),
			t.TxHash,
			int32(t.LogIndex),
			t.Timestamp,
			t.From,
			t.To,
			toNumeric(t.Value),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transfer in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// ListSince retrieves one page of transfers with block_timestamp >= minTimestamp.
func (s *TransferStore) ListSince(ctx context.Context, minTimestamp int64, limit, offset int) ([]*domain.Transfer, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT transfer_id, chain, block_number, tx_hash, log_index, block_timestamp, from_address, to_address, value
		FROM transfers
		WHERE block_timestamp >= $1
		ORDER BY block_timestamp ASC, chain ASC, block_number ASC, log_index ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, minTimestamp, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers since %d: %w", minTimestamp, err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

// Count returns the total number of transfers.
func (s *TransferStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM transfers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transfers: %w", err)
	}
	return count, nil
}

// scanTransfers scans multiple rows into a slice of Transfer.
func scanTransfers(rows pgx.Rows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer

	for rows.Next() {
		var (
			t           domain.Transfer
			blockNumber int64
			logIndex    int32
			value       pgtype.Numeric
		)

		err := rows.Scan(
			&t.ID,
			&t.Chain,
			&blockNumber,
			&t.TxHash,
			&logIndex,
			&t.Timestamp,
			&t.From,
			&t.To,
			&value,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}

		t.BlockNumber = uint64(blockNumber)
		t.LogIndex = uint(logIndex)
		if t.Value, err = fromNumeric(value); err != nil {
			return nil, fmt.Errorf("decode value of transfer %s: %w", t.ID, err)
		}

		transfers = append(transfers, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer rows: %w", err)
	}

	return transfers, nil
}
