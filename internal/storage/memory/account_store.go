package memory

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Account // keyed by chain|address
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		data: make(map[string]*domain.Account),
	}
}

func accountKey(chain, address string) string {
	return chain + "|" + address
}

// Upsert inserts or replaces accounts keyed by (chain, address).
func (s *AccountStore) Upsert(_ context.Context, accounts []*domain.Account) error {
	for _, a := range accounts {
		if a == nil || a.Chain == "" || a.Address == "" || a.Balance == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		c := copyAccount(a)
		c.Address = strings.ToLower(c.Address)
		s.data[accountKey(c.Chain, c.Address)] = c
	}
	return nil
}

// ListPositive retrieves accounts with balance > 0 ordered by balance DESC, then chain and address.
func (s *AccountStore) ListPositive(_ context.Context, limit, offset int) ([]*domain.Account, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var positive []*domain.Account
	for _, a := range s.data {
		if a.Balance.Sign() > 0 {
			positive = append(positive, a)
		}
	}

	sort.Slice(positive, func(i, j int) bool {
		a, b := positive[i], positive[j]
		if c := a.Balance.Cmp(b.Balance); c != 0 {
			return c > 0
		}
		if a.Chain != b.Chain {
			return a.Chain < b.Chain
		}
		return a.Address < b.Address
	})

	if offset >= len(positive) {
		return nil, nil
	}
	end := offset + limit
	if end > len(positive) {
		end = len(positive)
	}

	result := make([]*domain.Account, 0, end-offset)
	for _, a := range positive[offset:end] {
		result = append(result, copyAccount(a))
	}
	return result, nil
}

// GetByAddresses retrieves all rows for the given addresses, ordered by address then chain.
func (s *AccountStore) GetByAddresses(_ context.Context, addresses []string) ([]*domain.Account, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		wanted[strings.ToLower(addr)] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Account
	for _, a := range s.data {
		if _, ok := wanted[a.Address]; ok {
			result = append(result, copyAccount(a))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Address != result[j].Address {
			return result[i].Address < result[j].Address
		}
		return result[i].Chain < result[j].Chain
	})

	return result, nil
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Balance = new(big.Int).Set(a.Balance)
	return &c
}

var _ storage.AccountStore = (*AccountStore)(nil)
