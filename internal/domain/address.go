package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the mint/burn counterparty. It never takes part in per-address accounting.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// ErrInvalidAddress is returned for strings that are not 20-byte hex addresses.
var ErrInvalidAddress = errors.New("invalid address")

// NormalizeAddress validates a hex address and returns its lowercase canonical form.
// Checksummed (mixed-case) input is accepted; the checksum itself is not verified.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return strings.ToLower(common.HexToAddress(addr).Hex()), nil
}

// IsZeroAddress reports whether addr is the zero address, in any letter case.
// Empty strings are treated as zero so malformed rows never create a ledger entry.
func IsZeroAddress(addr string) bool {
	if addr == "" {
		return true
	}
	return common.HexToAddress(addr) == (common.Address{})
}
