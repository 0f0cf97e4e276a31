// Package amount converts raw fixed-point token amounts to and from decimal strings.
// It is the only place where token amounts are formatted.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the number of implicit fractional digits of the tracked token.
const TokenDecimals = 18

// ErrInvalidAmount is returned when a decimal string cannot be represented exactly.
var ErrInvalidAmount = errors.New("invalid amount")

// ToDecimalString renders raw/10^decimals without floating point.
// Trailing fractional zeros are stripped, the fractional part is omitted when zero,
// and negative values get a leading "-". A nil raw renders as "0".
func ToDecimalString(raw *big.Int, decimals int32) string {
	if raw == nil || raw.Sign() == 0 {
		return "0"
	}
	return decimal.NewFromBigInt(raw, -decimals).String()
}

// Format renders a raw amount of the tracked token.
func Format(raw *big.Int) string {
	return ToDecimalString(raw, TokenDecimals)
}

// FromDecimalString parses s back into raw units. It fails if s carries more
// fractional digits than decimals allows.
func FromDecimalString(s string, decimals int32) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, s, decimals)
	}
	return shifted.BigInt(), nil
}

// Parse parses a decimal string of the tracked token.
func Parse(s string) (*big.Int, error) {
	return FromDecimalString(s, TokenDecimals)
}
