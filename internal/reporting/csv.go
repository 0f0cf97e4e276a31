package reporting

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// RenderFlowsCSV renders every flow table as one CSV document with a window column.
func RenderFlowsCSV(r *Report) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Header
	records := [][]string{{
		"window", "rank", "address", "label", "inflow", "outflow", "net_flow",
		"balance", "transfer_count", "chains",
	}}

	// Rows
	for _, table := range r.Flows {
		for _, f := range table.Rows {
			records = append(records, []string{
				table.Window,
				strconv.Itoa(f.Rank),
				f.Address,
				f.Label,
				f.Inflow,
				f.Outflow,
				f.NetFlow,
				f.Balance,
				strconv.Itoa(f.TransferCount),
				f.Chains,
			})
		}
	}

	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderHoldersCSV renders the holder ranking as CSV.
func RenderHoldersCSV(r *Report) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"rank", "address", "label", "balance", "transfer_count", "chains"}}
	for _, h := range r.Holders {
		records = append(records, []string{
			strconv.Itoa(h.Rank),
			h.Address,
			h.Label,
			h.Balance,
			strconv.FormatInt(h.TransferCount, 10),
			h.Chains,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return buf.String(), nil
}
