package holders

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"token-flow-lab/internal/storage"
)

// DefaultBatchSize bounds the number of addresses per GetByAddresses call.
const DefaultBatchSize = 500

// Enricher resolves cross-chain balances for an explicit set of addresses.
type Enricher struct {
	accounts  storage.AccountReader
	batchSize int
}

// NewEnricher creates a balance enricher. batchSize <= 0 uses DefaultBatchSize.
func NewEnricher(accounts storage.AccountReader, batchSize int) *Enricher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Enricher{accounts: accounts, batchSize: batchSize}
}

// Balances returns the summed balance of every requested address, keyed by
// lowercase address. Addresses with no account rows map to zero.
// Rows of every sign are summed, so the result equals the address's net ledger position.
func (e *Enricher) Balances(ctx context.Context, addresses []string) (map[string]*big.Int, error) {
	balances := make(map[string]*big.Int, len(addresses))
	unique := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		addr = strings.ToLower(addr)
		if _, ok := balances[addr]; ok {
			continue
		}
		balances[addr] = new(big.Int)
		unique = append(unique, addr)
	}

	for i, batch := range storage.Batches(unique, e.batchSize) {
		rows, err := e.accounts.GetByAddresses(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("get balances batch %d: %w", i, err)
		}
		for _, row := range rows {
			if row.Balance == nil {
				continue
			}
			sum, ok := balances[strings.ToLower(row.Address)]
			if !ok {
				continue
			}
			sum.Add(sum, row.Balance)
		}
	}

	return balances, nil
}
