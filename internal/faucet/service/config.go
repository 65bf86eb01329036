package service

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

// StoreFailurePolicy decides what a claim does when the claim store cannot answer.
type StoreFailurePolicy string

var (
	// FailClosed rejects the claim.
	FailClosed StoreFailurePolicy = "fail-closed"
	// FailOpen lets the claim through without a cooldown check.
	FailOpen StoreFailurePolicy = "fail-open"
)

// Config holds the faucet parameters shared by the claim flow and the readers.
type Config struct {
	// Amount is the per-claim amount in raw token units.
	Amount             *big.Int
	Decimals           uint8
	ChainID            uint64
	Cooldown           time.Duration
	TransferTimeout    time.Duration
	// StoreTimeout bounds each claim store read attempt. Zero means defaultStoreTimeout.
	StoreTimeout       time.Duration
	// LedgerReadTimeout bounds each balance read attempt. Zero means defaultLedgerReadTimeout.
	LedgerReadTimeout  time.Duration
	StoreFailurePolicy StoreFailurePolicy
	HistoryMaxLimit    int
	// FallbackSymbol and FallbackName are served when the token contract does not answer metadata calls.
	FallbackSymbol string
	FallbackName   string
}

func (c Config) validate() error {
	if c.Amount == nil || c.Amount.Sign() <= 0 {
		return errors.New("per-claim amount must be positive")
	}
	if c.Cooldown <= 0 {
		return errors.New("cooldown must be positive")
	}
	switch c.StoreFailurePolicy {
	case FailClosed, FailOpen:
	default:
		return fmt.Errorf("unknown store failure policy %q", c.StoreFailurePolicy)
	}
	return nil
}

func (c Config) maxLimit() int {
	if c.HistoryMaxLimit <= 0 {
		return defaultMaxLimit
	}
	return c.HistoryMaxLimit
}

func (c Config) storeTimeout() time.Duration {
	if c.StoreTimeout <= 0 {
		return defaultStoreTimeout
	}
	return c.StoreTimeout
}

func (c Config) ledgerReadTimeout() time.Duration {
	if c.LedgerReadTimeout <= 0 {
		return defaultLedgerReadTimeout
	}
	return c.LedgerReadTimeout
}

// MaxClaimDuration is the longest a claim can hold its address lock: retried eligibility and balance reads,
// the transfer and the record write. A distributed lock must live longer than this.
func (c Config) MaxClaimDuration() time.Duration {
	var backoffs time.Duration
	for i := 1; i < readAttempts; i++ {
		backoffs += readBackoff * time.Duration(i)
	}
	reads := readAttempts*(c.storeTimeout()+c.ledgerReadTimeout()) + 2*backoffs
	return reads + c.TransferTimeout + recordTimeout
}
