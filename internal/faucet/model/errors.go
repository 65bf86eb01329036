package model

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable signals that the claim store could not answer; callers pick fail-open or fail-closed.
	ErrStoreUnavailable = errors.New("claim store unavailable")
	// ErrLedgerUnavailable signals a transport-level failure talking to the ledger node.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	// ErrTimeout signals that the ledger did not answer within the configured deadline.
	ErrTimeout = errors.New("ledger timeout")
	// ErrInsufficientGasFunds signals that the dispenser cannot pay for gas.
	ErrInsufficientGasFunds = errors.New("insufficient funds for gas")
	// ErrTransferRejected signals that the node refused the transfer.
	ErrTransferRejected = errors.New("transfer rejected")
)

// TransferError describes a failed transfer submission.
type TransferError struct {
	// Kind is one of ErrInsufficientGasFunds, ErrLedgerUnavailable, ErrTransferRejected, ErrTimeout.
	Kind error
	// Reason is the node-provided rejection reason, if any.
	Reason string
	// TransferID is the hash of the signed transaction when signing happened before the failure.
	TransferID string
	// Submitted reports whether the signed transaction was handed to the node.
	Submitted bool
	Err       error
}

func (e *TransferError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *TransferError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AsTransferError extracts a *TransferError from err.
func AsTransferError(err error) (*TransferError, bool) {
	var te *TransferError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
