package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

type balanceGuard struct {
	ledger   Ledger
	amount   *big.Int
	decimals uint8
	metrics  ClaimMetrics
	sleep    func(context.Context, time.Duration) error
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

// Check compares the raw dispenser balance with the raw per-claim amount.
func (g *balanceGuard) Check(ctx context.Context) (model.BalanceCheck, error) {
	balance, err := retryRead(ctx, g.sleep, g.attempts, g.backoff, withAttemptTimeout(g.timeout, g.ledger.TokenBalance))
	if err != nil {
		return model.BalanceCheck{}, fmt.Errorf("read dispenser balance: %w", err)
	}
	if balance == nil {
		balance = new(big.Int)
	}

	display := model.DisplayAmount(balance, g.decimals)
	g.metrics.SetTokenBalance(display.InexactFloat64())

	return model.BalanceCheck{
		Sufficient:     balance.Cmp(g.amount) >= 0,
		CurrentBalance: display,
		Raw:            balance,
	}, nil
}
