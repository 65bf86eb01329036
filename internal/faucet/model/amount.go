package model

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// NativeDecimals is the number of decimals of the chain's native currency.
const NativeDecimals uint8 = 18

// ParseAmount converts a display-unit decimal string into raw integer units.
func ParseAmount(display string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(display)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", display, err)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("amount %q must be positive", display)
	}
	raw := d.Shift(int32(decimals))
	if !raw.Equal(raw.Truncate(0)) {
		return nil, errors.New("amount has more fractional digits than the token supports")
	}
	return raw.BigInt(), nil
}

// DisplayAmount converts raw integer units into display units.
func DisplayAmount(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// FormatAmount renders raw integer units as a display-unit decimal string.
func FormatAmount(raw *big.Int, decimals uint8) string {
	return DisplayAmount(raw, decimals).String()
}
