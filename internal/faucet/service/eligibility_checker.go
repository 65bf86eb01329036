package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/clock"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/address"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

type eligibilityChecker struct {
	store    ClaimStore
	cooldown time.Duration
	now      clock.NowFunc
	sleep    func(context.Context, time.Duration) error
	attempts int
	backoff  time.Duration
	// timeout bounds each store read attempt; zero leaves it to ctx.
	timeout  time.Duration
}

// Check derives the cooldown verdict from the latest completed claim of the address.
// A store failure is returned wrapped in model.ErrStoreUnavailable and never reported as eligible.
func (c *eligibilityChecker) Check(ctx context.Context, addr string) (model.Eligibility, error) {
	if !c.store.Enabled() {
		return model.Eligibility{CanClaim: true}, nil
	}

	normalized := address.Normalize(addr)
	last, err := retryRead(ctx, c.sleep, c.attempts, c.backoff, withAttemptTimeout(c.timeout, func(ctx context.Context) (*model.Claim, error) {
		return c.store.LatestCompletedClaim(ctx, normalized)
	}))
	if err != nil {
		return model.Eligibility{}, fmt.Errorf("%w: latest completed claim: %w", model.ErrStoreUnavailable, err)
	}
	if last == nil {
		return model.Eligibility{CanClaim: true, Tracked: true}, nil
	}

	lastAt := last.CreatedAt
	if c.now().Sub(lastAt) >= c.cooldown {
		return model.Eligibility{CanClaim: true, LastClaimAt: &lastAt, Tracked: true}, nil
	}
	next := lastAt.Add(c.cooldown)
	return model.Eligibility{
		CanClaim:    false,
		LastClaimAt: &lastAt,
		NextClaimAt: &next,
		Tracked:     true,
	}, nil
}
