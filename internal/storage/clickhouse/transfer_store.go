package clickhouse

import (
	"context"
	"fmt"
	"math/big"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/idhash"
	"token-flow-lab/internal/storage"
)

// TransferStore implements storage.TransferStore using ClickHouse.
// Account balances stay in Postgres; ClickHouse only replicates the transfer log.
type TransferStore struct {
	conn *Conn
}

// NewTransferStore creates a new TransferStore.
func NewTransferStore(conn *Conn) *TransferStore {
	return &TransferStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TransferStore = (*TransferStore)(nil)

// InsertBulk adds multiple transfers. Fails entire batch on duplicate transfer_id.
func (s *TransferStore) InsertBulk(ctx context.Context, transfers []*domain.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	ids := make([]string, 0, len(transfers))
	seen := make(map[string]struct{}, len(transfers))
	for _, t := range transfers {
		if t == nil || t.Chain == "" || t.Value == nil || t.Value.Sign() < 0 {
			return storage.ErrInvalidInput
		}
		id := t.ID
		if id == "" {
			id = idhash.ComputeTransferID(t.Chain, t.TxHash, t.LogIndex)
		}
		if _, exists := seen[id]; exists {
			return storage.ErrDuplicateKey
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	// MergeTree does not enforce uniqueness, so check existing rows explicitly
	exists, err := s.anyExists(ctx, ids)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO transfers (
			transfer_id, chain, block_number, tx_hash, log_index, block_timestamp, from_address, to_address, value
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, t := range transfers {
		err = batch.Append(
			ids[i], t.Chain, t.BlockNumber, t.TxHash, uint32(t.LogIndex),
			uint64(t.Timestamp), t.From, t.To, new(big.Int).Set(t.Value),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// ListSince retrieves one page of transfers with block_timestamp >= minTimestamp.
func (s *TransferStore) ListSince(ctx context.Context, minTimestamp int64, limit, offset int) ([]*domain.Transfer, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidInput
	}
	if minTimestamp < 0 {
		minTimestamp = 0
	}

	query := `
		SELECT transfer_id, chain, block_number, tx_hash, log_index, block_timestamp, from_address, to_address, value
		FROM transfers FINAL
		WHERE block_timestamp >= ?
		ORDER BY block_timestamp ASC, chain ASC, block_number ASC, log_index ASC
		LIMIT ? OFFSET ?
	`

	rows, err := s.conn.Query(ctx, query, uint64(minTimestamp), uint64(limit), uint64(offset))
	if err != nil {
		return nil, fmt.Errorf("query transfers since %d: %w", minTimestamp, err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

// Count returns the number of distinct transfers.
func (s *TransferStore) Count(ctx context.Context) (int64, error) {
	var count uint64
	if err := s.conn.QueryRow(ctx, `SELECT count() FROM transfers FINAL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transfers: %w", err)
	}
	return int64(count), nil
}

// anyExists reports whether any of ids is already stored.
func (s *TransferStore) anyExists(ctx context.Context, ids []string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count() FROM transfers WHERE has(?, transfer_id)`, ids).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanTransfers scans multiple rows.
func scanTransfers(rows chRows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer

	for rows.Next() {
		var (
			t         domain.Transfer
			logIndex  uint32
			timestamp uint64
			value     big.Int
		)

		err := rows.Scan(
			&t.ID, &t.Chain, &t.BlockNumber, &t.TxHash, &logIndex,
			&timestamp, &t.From, &t.To, &value,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}

		t.LogIndex = uint(logIndex)
		t.Timestamp = int64(timestamp)
		t.Value = &value
		transfers = append(transfers, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer rows: %w", err)
	}

	return transfers, nil
}
