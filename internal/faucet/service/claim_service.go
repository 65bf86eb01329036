package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/clock"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/address"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"go.uber.org/zap"
)

// ClaimService runs the end-to-end claim flow:
// validate address, check eligibility, check balance, submit transfer, record outcome.
//
// Eligibility, balance, transfer and recording run while the per-address lock is held, so two
// concurrent claims for one address cannot both pass the cooldown check before either is recorded.
// With the in-process locker this holds for a single instance; multi-instance deployments need the
// Redis locker.
type ClaimService struct {
	logger        *zap.Logger
	metrics       ClaimMetrics
	locker        AddressLocker
	eligibility   EligibilityChecker
	balance       BalanceGuard
	transfer      TransferSubmitter
	recorder      ClaimRecorder
	now           clock.NowFunc
	cooldown      time.Duration
	amount        string
	chainID       uint64
	storePolicy   StoreFailurePolicy
	recordTimeout time.Duration
}

// NewClaimService builds a ClaimService with dependencies.
func NewClaimService(
	store ClaimStore,
	ledger Ledger,
	locker AddressLocker,
	metrics ClaimMetrics,
	cfg Config,
	logger *zap.Logger,
) (*ClaimService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("claim service config: %w", err)
	}
	if store == nil {
		return nil, errors.New("claim store is required")
	}
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if locker == nil {
		return nil, errors.New("address locker is required")
	}
	if metrics == nil {
		return nil, errors.New("claim metrics is required")
	}

	return &ClaimService{
		logger:  logger.Named("claimService"),
		metrics: metrics,
		locker:  locker,
		eligibility: &eligibilityChecker{
			store:    store,
			cooldown: cfg.Cooldown,
			now:      clock.UTCNow,
			sleep:    clock.SleepWithContext,
			attempts: readAttempts,
			backoff:  readBackoff,
			timeout:  cfg.storeTimeout(),
		},
		balance: &balanceGuard{
			ledger:   ledger,
			amount:   cfg.Amount,
			decimals: cfg.Decimals,
			metrics:  metrics,
			sleep:    clock.SleepWithContext,
			attempts: readAttempts,
			backoff:  readBackoff,
			timeout:  cfg.ledgerReadTimeout(),
		},
		transfer: &transferSubmitter{
			ledger:  ledger,
			amount:  cfg.Amount,
			timeout: cfg.TransferTimeout,
		},
		recorder:      &claimRecorder{store: store},
		now:           clock.UTCNow,
		cooldown:      cfg.Cooldown,
		amount:        model.FormatAmount(cfg.Amount, cfg.Decimals),
		chainID:       cfg.ChainID,
		storePolicy:   cfg.StoreFailurePolicy,
		recordTimeout: recordTimeout,
	}, nil
}

// Claim dispenses the configured amount to req.Address if it is eligible.
// Every outcome, including collaborator failures, is reported through the result.
func (s *ClaimService) Claim(ctx context.Context, req model.ClaimRequest) (result model.ClaimResult) {
	started := time.Now()
	defer func() {
		outcome := "success"
		if !result.Success {
			outcome = string(result.Reason)
		}
		s.metrics.ObserveClaim(outcome, started)
	}()

	if !address.Validate(req.Address) {
		return reject(model.RejectInvalidAddress, msgInvalidAddress)
	}
	addr := address.Normalize(req.Address)
	logger := s.logger.With(zap.String("address", addr))

	unlock, err := s.locker.Lock(ctx, addr)
	if err != nil {
		logger.Error("obtain address lock failed", zap.Error(err))
		if ctx.Err() != nil {
			return reject(model.RejectTimeout, msgTransferTimeout)
		}
		return reject(model.RejectInternal, msgInternal)
	}
	defer unlock()

	return s.claimLocked(ctx, logger, addr, req.SourceIP)
}

func (s *ClaimService) claimLocked(ctx context.Context, logger *zap.Logger, addr, sourceIP string) model.ClaimResult {
	eligibility, err := s.eligibility.Check(ctx, addr)
	switch {
	case errors.Is(err, model.ErrStoreUnavailable) && s.storePolicy == FailOpen:
		logger.Warn("claim store unavailable, skipping cooldown check", zap.Error(err))
	case errors.Is(err, model.ErrStoreUnavailable):
		logger.Error("claim store unavailable, rejecting claim", zap.Error(err))
		return reject(model.RejectStoreUnavailable, msgStoreUnavailable)
	case err != nil:
		logger.Error("eligibility check failed", zap.Error(err))
		return reject(model.RejectInternal, msgInternal)
	case !eligibility.CanClaim:
		res := reject(model.RejectCooldownActive, cooldownMessage(s.cooldown, s.now(), *eligibility.NextClaimAt))
		res.NextClaimAt = eligibility.NextClaimAt
		return res
	}

	balance, err := s.balance.Check(ctx)
	if err != nil {
		logger.Error("dispenser balance check failed", zap.Error(err))
		if errors.Is(err, model.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return reject(model.RejectTimeout, msgLedgerUnavailable)
		}
		return reject(model.RejectLedgerUnavailable, msgLedgerUnavailable)
	}
	if !balance.Sufficient {
		logger.Warn("dispenser balance below per-claim amount", zap.String("balance", balance.CurrentBalance.String()))
		return reject(model.RejectFaucetEmpty, msgFaucetEmpty)
	}

	transferID, err := s.transfer.Submit(ctx, addr)
	if err != nil {
		return s.transferFailed(ctx, logger, addr, sourceIP, err)
	}
	logger.Info("transfer submitted", zap.String("tx_hash", transferID))

	s.record(ctx, logger, model.Claim{
		Address:    addr,
		Amount:     s.amount,
		TransferID: transferID,
		ChainID:    s.chainID,
		Status:     model.ClaimCompleted,
		SourceIP:   sourceIP,
	})

	return model.ClaimResult{
		Success:    true,
		Message:    msgClaimSent,
		TransferID: transferID,
		Amount:     s.amount,
	}
}

func (s *ClaimService) transferFailed(ctx context.Context, logger *zap.Logger, addr, sourceIP string, err error) model.ClaimResult {
	te, ok := model.AsTransferError(err)
	if !ok {
		logger.Error("transfer failed", zap.Error(err))
		return reject(model.RejectInternal, msgInternal)
	}
	logger.Error("transfer failed",
		zap.Error(err),
		zap.Bool("submitted", te.Submitted),
		zap.String("tx_hash", te.TransferID),
		zap.String("reason", te.Reason),
	)

	if te.Submitted {
		s.record(ctx, logger, model.Claim{
			Address:    addr,
			Amount:     s.amount,
			TransferID: te.TransferID,
			ChainID:    s.chainID,
			Status:     model.ClaimFailed,
			SourceIP:   sourceIP,
		})
	}

	switch te.Kind {
	case model.ErrInsufficientGasFunds:
		return reject(model.RejectInsufficientGasFunds, msgInsufficientGas)
	case model.ErrTransferRejected:
		if isBalanceRevert(te.Reason) {
			return reject(model.RejectFaucetEmpty, msgFaucetEmpty)
		}
		return reject(model.RejectTransferRejected, msgTransferRejected)
	case model.ErrTimeout:
		return reject(model.RejectTimeout, msgTransferTimeout)
	default:
		return reject(model.RejectLedgerUnavailable, msgLedgerUnavailable)
	}
}

// record persists the claim outcome. Failures are logged and counted, never surfaced:
// once the transfer went out the caller-visible result cannot change.
func (s *ClaimService) record(ctx context.Context, logger *zap.Logger, claim model.Claim) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	defer cancel()

	saved, err := s.recorder.Record(ctx, claim)
	if err != nil {
		s.metrics.ObserveRecordFailure(claim.Status)
		logger.Warn("record claim failed",
			zap.Error(err),
			zap.String("status", string(claim.Status)),
			zap.String("tx_hash", claim.TransferID),
		)
		return
	}
	logger.Debug("claim recorded", zap.String("id", saved.ID), zap.String("status", string(saved.Status)))
}

// isBalanceRevert reports whether the node rejected the transfer because the dispenser ran out of tokens,
// which happens when concurrent claims for different addresses pass the balance check together.
func isBalanceRevert(reason string) bool {
	reason = strings.ToLower(reason)
	return strings.Contains(reason, "exceeds balance") || strings.Contains(reason, "insufficient balance")
}

func reject(reason model.RejectionReason, message string) model.ClaimResult {
	return model.ClaimResult{Success: false, Message: message, Reason: reason}
}
