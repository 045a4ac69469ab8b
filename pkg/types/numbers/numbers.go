package numbers

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the number of decimal places every vault amount is denominated in.
const TokenDecimals int32 = 18

// ParseUnits converts a human readable amount (e.g. "100.5") into base units with the given number of decimals.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount '%s': %w", amount, err)
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("amount '%s' has more than %d decimal places", amount, decimals)
	}
	return shifted.BigInt(), nil
}

// MustParseUnits is ParseUnits for constant inputs; it panics on malformed amounts.
func MustParseUnits(amount string, decimals int32) *big.Int {
	v, err := ParseUnits(amount, decimals)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseEther parses an amount with 18 decimals.
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, TokenDecimals)
}

// FormatUnits renders base units as a decimal string with the given number of decimals.
func FormatUnits(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}

// NewBigFromString parses a base-10 integer as stored in the database.
// An empty string is treated as zero.
func NewBigFromString(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("failed to parse '%s' as a base-10 integer", s)
	}
	return v, nil
}

// BigToFloat is a lossy conversion used for metrics only.
func BigToFloat(v *big.Int, decimals int32) float64 {
	if v == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(v, -decimals).Float64()
	return f
}

func IsPositive(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}
