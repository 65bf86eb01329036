package service

import (
	"context"
	"errors"
	"fmt"
)

// ErrDecimalsMismatch means the configured token decimals disagree with the contract.
// Claims would then dispense a different amount than configured.
var ErrDecimalsMismatch = errors.New("token decimals mismatch")

// VerifyTokenDecimals compares the configured decimals with the token contract's decimals().
func VerifyTokenDecimals(ctx context.Context, ledger Ledger, decimals uint8) error {
	meta, err := ledger.TokenMetadata(ctx)
	if err != nil {
		return fmt.Errorf("read token metadata: %w", err)
	}
	if meta.Decimals != decimals {
		return fmt.Errorf("%w: configured %d, contract reports %d", ErrDecimalsMismatch, decimals, meta.Decimals)
	}
	return nil
}
