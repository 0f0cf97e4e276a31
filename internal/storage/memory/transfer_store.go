package memory

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/idhash"
	"token-flow-lab/internal/storage"
)

// TransferStore is an in-memory implementation of storage.TransferStore.
type TransferStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transfer // keyed by transfer_id
}

// NewTransferStore creates a new in-memory transfer store.
func NewTransferStore() *TransferStore {
	return &TransferStore{
		data: make(map[string]*domain.Transfer),
	}
}

// InsertBulk adds multiple transfers atomically. Fails entire batch on any duplicate.
func (s *TransferStore) InsertBulk(_ context.Context, transfers []*domain.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]*domain.Transfer, len(transfers))

	// First pass: validate and check for duplicates (existing + intra-batch)
	for _, t := range transfers {
		if t == nil || t.Chain == "" || t.Value == nil {
			return storage.ErrInvalidInput
		}
		id := transferID(t)
		if _, exists := s.data[id]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[id]; exists {
			return storage.ErrDuplicateKey
		}
		c := copyTransfer(t)
		c.ID = id
		batch[id] = c
	}

	// Second pass: insert all
	for id, t := range batch {
		s.data[id] = t
	}

	return nil
}

// ListSince retrieves transfers with timestamp >= minTimestamp in ledger order.
func (s *TransferStore) ListSince(_ context.Context, minTimestamp int64, limit, offset int) ([]*domain.Transfer, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.Transfer
	for _, t := range s.data {
		if t.Timestamp >= minTimestamp {
			matched = append(matched, t)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		if a.Chain != b.Chain {
			return a.Chain < b.Chain
		}
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber < b.BlockNumber
		}
		return a.LogIndex < b.LogIndex
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	result := make([]*domain.Transfer, 0, end-offset)
	for _, t := range matched[offset:end] {
		result = append(result, copyTransfer(t))
	}
	return result, nil
}

// Count returns the number of stored transfers.
func (s *TransferStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

func transferID(t *domain.Transfer) string {
	if t.ID != "" {
		return t.ID
	}
	return idhash.ComputeTransferID(t.Chain, t.TxHash, t.LogIndex)
}

func copyTransfer(t *domain.Transfer) *domain.Transfer {
	c := *t
	if t.Value != nil {
		c.Value = new(big.Int).Set(t.Value)
	}
	return &c
}

var _ storage.TransferStore = (*TransferStore)(nil)
