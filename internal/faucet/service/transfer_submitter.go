package service

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

type transferSubmitter struct {
	ledger  Ledger
	amount  *big.Int
	timeout time.Duration
}

// Submit sends the configured amount to the address and returns once the node accepted the transaction.
// It is never retried: a second submission could dispense twice.
func (s *transferSubmitter) Submit(ctx context.Context, to string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	id, err := s.ledger.Transfer(ctx, to, new(big.Int).Set(s.amount))
	if err == nil {
		return id, nil
	}

	te, ok := model.AsTransferError(err)
	if !ok {
		te = &model.TransferError{Kind: model.ErrLedgerUnavailable, Err: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && te.Kind != model.ErrTimeout {
		te = &model.TransferError{
			Kind:       model.ErrTimeout,
			TransferID: te.TransferID,
			Submitted:  te.Submitted,
			Err:        te,
		}
	}
	return "", te
}
