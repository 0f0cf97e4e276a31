package domain

// Summary is the document handed to the presentation layer.
// All monetary fields are decimal strings so no precision is lost in JSON.
type Summary struct {
	Top7d          []FlowRow         `json:"top_7d"`
	Top30d         []FlowRow         `json:"top_30d"`
	TopHolders     []HolderRow       `json:"top_holders"`
	Labels         map[string]string `json:"labels"`
	SyncedAt       string            `json:"synced_at"`
	TotalTransfers int64             `json:"total_transfers"`
}

// FlowRow is one ranked address in a flow window.
type FlowRow struct {
	Address       string   `json:"address"`
	Inflow        string   `json:"inflow"`
	Outflow       string   `json:"outflow"`
	NetFlow       string   `json:"net_flow"`
	Balance       string   `json:"balance"`
	TransferCount int      `json:"transfer_count"`
	Chains        []string `json:"chains"`
}

// HolderRow is one ranked address by balance.
type HolderRow struct {
	Address       string   `json:"address"`
	Balance       string   `json:"balance"`
	TransferCount int64    `json:"transfer_count"`
	Chains        []string `json:"chains"`
}

// Addresses returns every address referenced by the document, without duplicates,
// in order of first appearance.
func (s *Summary) Addresses() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(addr string) {
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	for _, r := range s.Top7d {
		add(r.Address)
	}
	for _, r := range s.Top30d {
		add(r.Address)
	}
	for _, r := range s.TopHolders {
		add(r.Address)
	}
	return out
}
