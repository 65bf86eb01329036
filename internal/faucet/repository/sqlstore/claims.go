package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"gorm.io/gorm"
)

// InsertClaim appends a claim row. ID and CreatedAt are assigned here.
func (s *Store) InsertClaim(ctx context.Context, claim model.Claim) (model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("insert_claim", err, start)
	}()

	claim.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	row := newClaimRow(claim)
	if err = s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return claim, fmt.Errorf("insert claim: %w", err)
	}
	return row.claim(), nil
}

// LatestCompletedClaim returns the newest completed claim of address, or nil when there is none.
func (s *Store) LatestCompletedClaim(ctx context.Context, address string) (*model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("latest_completed_claim", err, start)
	}()

	var row claimRow
	err = s.db.WithContext(ctx).
		Where("address = ? AND status = ?", address, string(model.ClaimCompleted)).
		Order("created_at DESC").
		Order("id DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest completed claim: %w", err)
	}
	c := row.claim()
	return &c, nil
}

// ClaimHistory returns up to limit claims of address, newest first.
func (s *Store) ClaimHistory(ctx context.Context, address string, limit int) ([]model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("claim_history", err, start)
	}()

	var rows []claimRow
	if err = s.db.WithContext(ctx).
		Where("address = ?", address).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query claim history: %w", err)
	}
	return claims(rows), nil
}

// RecentClaims returns up to limit claims across all addresses, newest first.
func (s *Store) RecentClaims(ctx context.Context, limit int) ([]model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("recent_claims", err, start)
	}()

	var rows []claimRow
	if err = s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query recent claims: %w", err)
	}
	return claims(rows), nil
}
