package domain

import "math/big"

// Transfer is one ERC-20 Transfer log as recorded by the indexer.
// Corresponds to the transfers table. Rows are append-only.
type Transfer struct {
	ID          string   // idhash.ComputeTransferID(chain, tx_hash, log_index)
	Chain       string   // chain name, e.g. "ethereum"
	BlockNumber uint64   // block containing the log
	TxHash      string   // 0x-prefixed transaction hash
	LogIndex    uint     // position of the log within the block
	Timestamp   int64    // block timestamp, unix seconds
	From        string   // lowercase sender, ZeroAddress on mint
	To          string   // lowercase recipient, ZeroAddress on burn
	Value       *big.Int // raw token units (18 implicit decimals)
}

// IsMint reports whether the transfer creates supply.
func (t *Transfer) IsMint() bool {
	return IsZeroAddress(t.From)
}

// IsBurn reports whether the transfer destroys supply.
func (t *Transfer) IsBurn() bool {
	return IsZeroAddress(t.To)
}
