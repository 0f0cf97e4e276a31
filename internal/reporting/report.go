package reporting

import (
	"strings"

	"token-flow-lab/internal/domain"
)

// Report is the presentation view of a summary document.
type Report struct {
	// Metadata
	SyncedAt       string
	TotalTransfers int64
	LabelCount     int

	// Flow tables in window order (7d, then 30d)
	Flows []FlowTable

	// Holder ranking
	Holders []HolderLine
}

// FlowTable is the ranked flow table of one window.
type FlowTable struct {
	Window string
	Rows   []FlowLine
}

// FlowLine represents one row in a flow table.
type FlowLine struct {
	Rank          int
	Address       string
	Label         string // empty if the address is unlabeled
	Inflow        string
	Outflow       string
	NetFlow       string
	Balance       string
	TransferCount int
	Chains        string // comma-joined
}

// HolderLine represents one row in the holder table.
type HolderLine struct {
	Rank          int
	Address       string
	Label         string
	Balance       string
	TransferCount int64
	Chains        string
}

// FromSummary builds a report view of doc.
func FromSummary(doc *domain.Summary) *Report {
	r := &Report{
		SyncedAt:       doc.SyncedAt,
		TotalTransfers: doc.TotalTransfers,
		LabelCount:     len(doc.Labels),
		Flows: []FlowTable{
			{Window: "7d", Rows: flowLines(doc.Top7d, doc.Labels)},
			{Window: "30d", Rows: flowLines(doc.Top30d, doc.Labels)},
		},
	}

	for i, h := range doc.TopHolders {
		r.Holders = append(r.Holders, HolderLine{
			Rank:          i + 1,
			Address:       h.Address,
			Label:         doc.Labels[h.Address],
			Balance:       h.Balance,
			TransferCount: h.TransferCount,
			Chains:        strings.Join(h.Chains, ","),
		})
	}

	return r
}

func flowLines(rows []domain.FlowRow, labels map[string]string) []FlowLine {
	lines := make([]FlowLine, 0, len(rows))
	for i, f := range rows {
		lines = append(lines, FlowLine{
			Rank:          i + 1,
			Address:       f.Address,
			Label:         labels[f.Address],
			Inflow:        f.Inflow,
			Outflow:       f.Outflow,
			NetFlow:       f.NetFlow,
			Balance:       f.Balance,
			TransferCount: f.TransferCount,
			Chains:        strings.Join(f.Chains, ","),
		})
	}
	return lines
}
