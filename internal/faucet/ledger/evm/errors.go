package evm

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

// classify maps a node error onto the transfer failure taxonomy.
func classify(err error, txHash string, submitted bool) *model.TransferError {
	te := &model.TransferError{
		TransferID: txHash,
		Submitted:  submitted,
		Err:        err,
	}

	var rpcErr rpc.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		te.Kind = model.ErrTimeout
	case isInsufficientFunds(err):
		te.Kind = model.ErrInsufficientGasFunds
	case errors.As(err, &rpcErr):
		te.Kind = model.ErrTransferRejected
		te.Reason = rpcErr.Error()
	default:
		te.Kind = model.ErrLedgerUnavailable
	}
	return te
}

func isInsufficientFunds(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "insufficient funds")
}
