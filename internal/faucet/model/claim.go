// Package model defines domain models for the token faucet.
package model

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus describes the lifecycle state of a claim record.
type ClaimStatus string

var (
	// ClaimPending marks a claim whose transfer is still in flight.
	ClaimPending ClaimStatus = "pending"
	// ClaimCompleted marks a claim whose transfer was accepted by the ledger.
	ClaimCompleted ClaimStatus = "completed"
	// ClaimFailed marks a claim whose transfer was submitted but rejected.
	ClaimFailed ClaimStatus = "failed"
)

// Claim represents a single dispense attempt persisted to the claim store.
type Claim struct {
	ID         string      `json:"id"`
	Address    string      `json:"address"`
	Amount     string      `json:"amount"`
	TransferID string      `json:"txHash,omitempty"`
	ChainID    uint64      `json:"chainId"`
	Status     ClaimStatus `json:"status"`
	SourceIP   string      `json:"sourceIp,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Eligibility is the cooldown verdict for an address.
type Eligibility struct {
	CanClaim    bool
	LastClaimAt *time.Time
	NextClaimAt *time.Time
	// Tracked is false when no claim store is configured and the verdict is not backed by history.
	Tracked bool
}

// BalanceCheck is the outcome of comparing the dispenser balance with the per-claim amount.
type BalanceCheck struct {
	Sufficient     bool
	CurrentBalance decimal.Decimal
	Raw            *big.Int
}

// TokenMetadata describes the dispensed ERC-20 token.
type TokenMetadata struct {
	Symbol   string
	Name     string
	Decimals uint8
}

// FaucetInfo is the operator-facing summary served by the info endpoint.
type FaucetInfo struct {
	FaucetAddress  string `json:"faucetAddress"`
	TokenAddress   string `json:"tokenAddress"`
	TokenSymbol    string `json:"tokenSymbol"`
	TokenName      string `json:"tokenName"`
	TokenDecimals  uint8  `json:"tokenDecimals"`
	TokenBalance   string `json:"tokenBalance"`
	NativeBalance  string `json:"nativeBalance"`
	AmountPerClaim string `json:"amountPerClaim"`
	ChainID        uint64 `json:"chainId"`
	ClaimInterval  string `json:"claimInterval"`
}
