package helpers

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// MaxAmountKeyword is the request-level alias for the everything sentinel.
// Clients may send it in place of a numeric amount to deposit or withdraw
// their full balance.
const MaxAmountKeyword = "max"

// ParseAmount converts a client-supplied amount string into a uint256.
// Decimal strings, 0x-prefixed hex strings, and the "max" keyword are accepted.
func ParseAmount(s string) (*uint256.Int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if strings.EqualFold(trimmed, MaxAmountKeyword) {
		return new(uint256.Int).SetAllOne(), nil
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		value, err := uint256.FromHex(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid hex amount %q: %w", s, err)
		}
		return value, nil
	}
	value, err := uint256.FromDecimal(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return value, nil
}

// FormatAmount renders a uint256 as a decimal string for API responses.
func FormatAmount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// ParseAddress validates and decodes a 0x-prefixed EVM address string.
func ParseAddress(s string) (common.Address, error) {
	trimmed := strings.TrimSpace(s)
	if !IsAddressValid(trimmed) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(trimmed), nil
}

// ParseHash32 decodes a 0x-prefixed 32-byte hex string, as used for
// signature scalars.
func ParseHash32(s string) ([32]byte, error) {
	var out [32]byte
	decoded, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil {
		return out, fmt.Errorf("invalid hex value %q: %w", s, err)
	}
	if len(decoded) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(decoded))
	}
	copy(out[:], decoded)
	return out, nil
}
