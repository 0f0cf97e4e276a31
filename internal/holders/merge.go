package holders

import (
	"sort"
	"strings"

	"token-flow-lab/internal/domain"
)

// Merger groups per-chain account rows by lowercase address.
// The merged result does not depend on how rows were split across Add calls.
type Merger struct {
	entries map[string]*domain.HolderEntry
}

// NewMerger creates an empty merger.
func NewMerger() *Merger {
	return &Merger{entries: make(map[string]*domain.HolderEntry)}
}

// Add folds rows into the running totals. Non-positive balances and the zero
// address are ignored.
func (m *Merger) Add(rows []*domain.Account) {
	for _, row := range rows {
		if row == nil || row.Balance == nil || row.Balance.Sign() <= 0 {
			continue
		}
		if domain.IsZeroAddress(row.Address) {
			continue
		}

		addr := strings.ToLower(row.Address)
		e, ok := m.entries[addr]
		if !ok {
			e = domain.NewHolderEntry(addr)
			m.entries[addr] = e
		}
		e.Balance.Add(e.Balance, row.Balance)
		e.TransferCount += row.TransferCount
		e.Chains[row.Chain] = struct{}{}
	}
}

// Len returns the number of distinct addresses merged so far.
func (m *Merger) Len() int {
	return len(m.entries)
}

// Ranked returns the n largest holders by balance, ties broken by address ascending.
func (m *Merger) Ranked(n int) []*domain.HolderEntry {
	out := make([]*domain.HolderEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Balance.Cmp(out[j].Balance); c != 0 {
			return c > 0
		}
		return out[i].Address < out[j].Address
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
