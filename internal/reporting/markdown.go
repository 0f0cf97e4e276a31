package reporting

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Token Flow Summary\n\n")
	sb.WriteString(fmt.Sprintf("Synced: %s\n\n", r.SyncedAt))
	sb.WriteString(fmt.Sprintf("Transfers indexed: %d | Labeled addresses: %d\n\n", r.TotalTransfers, r.LabelCount))

	// Flow windows
	for _, table := range r.Flows {
		sb.WriteString(fmt.Sprintf("## Top Net Flow (%s)\n\n", table.Window))
		if len(table.Rows) == 0 {
			sb.WriteString("No transfers in window.\n\n")
			continue
		}
		sb.WriteString("| # | Address | Label | Inflow | Outflow | Net | Balance | Transfers | Chains |\n")
		sb.WriteString("|---|---------|-------|--------|---------|-----|---------|-----------|--------|\n")
		for _, f := range table.Rows {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %d | %s |\n",
				f.Rank, f.Address, escapeCell(f.Label),
				f.Inflow, f.Outflow, f.NetFlow, f.Balance,
				f.TransferCount, f.Chains))
		}
		sb.WriteString("\n")
	}

	// Holders
	sb.WriteString("## Top Holders\n\n")
	if len(r.Holders) > 0 {
		sb.WriteString("| # | Address | Label | Balance | Transfers | Chains |\n")
		sb.WriteString("|---|---------|-------|---------|-----------|--------|\n")
		for _, h := range r.Holders {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d | %s |\n",
				h.Rank, h.Address, escapeCell(h.Label), h.Balance, h.TransferCount, h.Chains))
		}
	} else {
		sb.WriteString("No holders with positive balance.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// escapeCell keeps user-supplied label text from breaking the table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
