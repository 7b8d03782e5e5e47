package transfer

import (
	"context"
	"fmt"
	"log/slog"

	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/services/funding"
)

// TopUp credits cash from the funding source. The hold is released when
// the ledger write rolls back and captured once it has committed.
func (s *service) TopUp(ctx context.Context, req TopUp) (res *Result, err error) {
	const op = "transfer.TopUp"

	log := s.log.With(sl.String("op", op), sl.String("user_id", req.UserID))
	r := s.begin(KindTopUp, log)
	r.amount = req.Amount
	defer func() { s.finish(ctx, r, err) }()

	if err := validateAmount(req.Amount, s.config.MinTopUp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.ledger.GetBalance(ctx, req.UserID, models.WalletCash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}
	if current+req.Amount > s.config.MaxCashBalance {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrLimitExceeded)
	}

	hold, err := s.funding.Hold(ctx, req.UserID, req.Amount, req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(sl.String("funding_ref", hold.Reference))

	var (
		incoming models.Transaction
		account  models.Account
	)

	err = s.ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		source := hold.Account
		if err := tx.SaveBankAccount(ctx, &source); err != nil {
			return err
		}

		r.advance(StageCrediting)
		balance, err := tx.ApplyCappedDelta(ctx, req.UserID, models.WalletCash, req.Amount, s.config.MaxCashBalance)
		if err != nil {
			return err
		}

		r.advance(StageLogging)
		incoming = models.Transaction{
			UserID:     req.UserID,
			Amount:     req.Amount,
			WalletType: models.WalletCash,
			Flow:       models.FlowIncoming,
			TargetType: models.TargetBank,
			TargetID:   source.BankAccountID,
			Note:       "Top up",
		}
		if err := tx.RecordTransaction(ctx, &incoming); err != nil {
			return err
		}
		if _, err := tx.Snapshot(ctx, req.UserID, models.WalletCash, balance); err != nil {
			return err
		}

		account, err = commitView(ctx, tx, req.UserID)
		return err
	})
	if err != nil {
		s.releaseHold(ctx, log, req, hold)
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}

	s.captureHold(ctx, log, req, hold)
	s.afterCommit(ctx, KindTopUp, account)

	return &Result{Account: account, Transaction: incoming, Target: hold.Account}, nil
}

// captureHold settles the hold. The credit has already committed, so a
// failure is queued for reconciliation instead of being returned.
func (s *service) captureHold(ctx context.Context, log *slog.Logger, req TopUp, hold *funding.Hold) {
	if err := s.funding.Capture(context.WithoutCancel(ctx), hold); err != nil {
		log.Error("funding capture failed after commit", sl.Err(err))
		s.recon.Record(ctx, fundingRecord(models.ReasonFundingCaptureFailed, req, hold, err))
	}
}

func (s *service) releaseHold(ctx context.Context, log *slog.Logger, req TopUp, hold *funding.Hold) {
	if err := s.funding.Release(context.WithoutCancel(ctx), hold); err != nil {
		log.Error("funding release failed after rollback", sl.Err(err))
		s.recon.Record(ctx, fundingRecord(models.ReasonFundingReleaseFailed, req, hold, err))
	}
}

func fundingRecord(reason string, req TopUp, hold *funding.Hold, cause error) *models.Reconciliation {
	return &models.Reconciliation{
		UserID:      req.UserID,
		Reason:      reason,
		Service:     "topup:" + hold.Method,
		AccountRef:  hold.Account.AccountNumber,
		WalletType:  models.WalletCash,
		Amount:      req.Amount,
		ProviderRef: hold.Reference,
		Details:     models.JSON{"error": cause.Error()},
	}
}
