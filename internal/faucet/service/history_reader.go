package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/faucet-backend/internal/clock"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/address"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

// ErrInvalidAddress is returned by readers for malformed addresses.
var ErrInvalidAddress = errors.New("invalid address")

// HistoryReader serves read-only claim queries.
type HistoryReader struct {
	store       ClaimStore
	eligibility EligibilityChecker
	maxLimit    int
}

// NewHistoryReader builds a HistoryReader over the claim store.
func NewHistoryReader(store ClaimStore, cfg Config) (*HistoryReader, error) {
	if store == nil {
		return nil, errors.New("claim store is required")
	}
	if cfg.Cooldown <= 0 {
		return nil, errors.New("cooldown must be positive")
	}
	return &HistoryReader{
		store: store,
		eligibility: &eligibilityChecker{
			store:    store,
			cooldown: cfg.Cooldown,
			now:      clock.UTCNow,
			sleep:    clock.SleepWithContext,
			attempts: readAttempts,
			backoff:  readBackoff,
			timeout:  cfg.storeTimeout(),
		},
		maxLimit: cfg.maxLimit(),
	}, nil
}

// Status reports whether the address may claim now.
func (r *HistoryReader) Status(ctx context.Context, addr string) (model.Eligibility, error) {
	if !address.Validate(addr) {
		return model.Eligibility{}, ErrInvalidAddress
	}
	return r.eligibility.Check(ctx, addr)
}

// History returns the newest claims of an address, newest first.
func (r *HistoryReader) History(ctx context.Context, addr string, limit int) ([]model.Claim, error) {
	if !address.Validate(addr) {
		return nil, ErrInvalidAddress
	}
	claims, err := r.store.ClaimHistory(ctx, address.Normalize(addr), clampLimit(limit, defaultHistoryLimit, r.maxLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: claim history: %w", model.ErrStoreUnavailable, err)
	}
	return nonNil(claims), nil
}

// Recent returns the newest claims across all addresses, newest first.
func (r *HistoryReader) Recent(ctx context.Context, limit int) ([]model.Claim, error) {
	claims, err := r.store.RecentClaims(ctx, clampLimit(limit, defaultRecentLimit, r.maxLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: recent claims: %w", model.ErrStoreUnavailable, err)
	}
	return nonNil(claims), nil
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

func nonNil(claims []model.Claim) []model.Claim {
	if claims == nil {
		return []model.Claim{}
	}
	return claims
}
