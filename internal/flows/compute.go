package flows

import (
	"math/big"
	"sort"
	"strings"

	"token-flow-lab/internal/domain"
)

// DefaultTopN is the number of addresses kept per flow ranking.
const DefaultTopN = 50

// Compute accumulates per-address flows over transfers with Timestamp >= cutoff.
// Entries are returned in first-seen order: a transfer's sender is seen before
// its recipient, and transfers are visited in the given order.
// The zero address is never given an entry; the other side of a mint or burn is.
func Compute(transfers []*domain.Transfer, cutoff int64) []*domain.FlowEntry {
	index := make(map[string]*domain.FlowEntry)
	var order []*domain.FlowEntry

	entry := func(addr string) *domain.FlowEntry {
		addr = strings.ToLower(addr)
		e, ok := index[addr]
		if !ok {
			e = domain.NewFlowEntry(addr)
			index[addr] = e
			order = append(order, e)
		}
		return e
	}

	for _, t := range transfers {
		if t.Timestamp < cutoff || t.Value == nil {
			continue
		}

		if !domain.IsZeroAddress(t.From) {
			e := entry(t.From)
			e.Outflow.Add(e.Outflow, t.Value)
			e.Count++
			e.Chains[t.Chain] = struct{}{}
		}
		if !domain.IsZeroAddress(t.To) {
			e := entry(t.To)
			e.Inflow.Add(e.Inflow, t.Value)
			e.Count++
			e.Chains[t.Chain] = struct{}{}
		}
	}

	return order
}

// Rank orders entries by |inflow - outflow| descending and keeps the first n.
// Equal magnitudes keep their input order. The input slice is not modified.
func Rank(entries []*domain.FlowEntry, n int) []*domain.FlowEntry {
	type keyed struct {
		entry *domain.FlowEntry
		mag   *big.Int
	}

	ks := make([]keyed, len(entries))
	for i, e := range entries {
		net := e.Net()
		ks[i] = keyed{entry: e, mag: net.Abs(net)}
	}

	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].mag.Cmp(ks[j].mag) > 0
	})

	if n >= 0 && len(ks) > n {
		ks = ks[:n]
	}

	ranked := make([]*domain.FlowEntry, len(ks))
	for i, k := range ks {
		ranked[i] = k.entry
	}
	return ranked
}
