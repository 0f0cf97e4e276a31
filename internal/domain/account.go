package domain

import "math/big"

// Account is the ledger balance of one address on one chain.
// Corresponds to the accounts table, keyed by (chain, address).
type Account struct {
	Chain         string
	Address       string   // lowercase hex
	Balance       *big.Int // signed; negative only when events were applied out of order
	TransferCount int64
	LastBlock     uint64
	UpdatedAt     int64 // unix seconds of the last applied transfer
}
