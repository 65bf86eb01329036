package model

import "time"

// RejectionReason classifies why a claim did not succeed.
type RejectionReason string

var (
	RejectInvalidAddress       RejectionReason = "invalid_address"
	RejectCooldownActive       RejectionReason = "cooldown_active"
	RejectFaucetEmpty          RejectionReason = "faucet_empty"
	RejectInsufficientGasFunds RejectionReason = "insufficient_gas_funds"
	RejectLedgerUnavailable    RejectionReason = "ledger_unavailable"
	RejectTransferRejected     RejectionReason = "transfer_rejected"
	RejectTimeout              RejectionReason = "timeout"
	RejectStoreUnavailable     RejectionReason = "store_unavailable"
	RejectInternal             RejectionReason = "internal_error"
)

// Transient reports whether retrying the whole request later may succeed.
func (r RejectionReason) Transient() bool {
	switch r {
	case RejectLedgerUnavailable, RejectTimeout, RejectStoreUnavailable:
		return true
	default:
		return false
	}
}

// ClaimRequest is the caller input for a claim.
type ClaimRequest struct {
	Address  string
	SourceIP string
}

// ClaimResult is the caller-visible outcome of a claim. Rejections are values, not errors.
type ClaimResult struct {
	Success     bool
	Message     string
	TransferID  string
	Amount      string
	Reason      RejectionReason
	NextClaimAt *time.Time
}
