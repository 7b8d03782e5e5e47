package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"

	"github.com/google/uuid"
)

const writeTimeout = 5 * time.Second

type MetricsCollector interface {
	RecordReconciliation(reason string)
}

type Service interface {
	// Record persists rec on a context detached from the caller and
	// returns its id. Persistence failures are logged with the full
	// record; the id is still returned.
	Record(ctx context.Context, rec *models.Reconciliation) string
	List(ctx context.Context, status string, limit, offset int) ([]models.Reconciliation, int64, error)
	Resolve(ctx context.Context, reconciliationID, note string) (*models.Reconciliation, error)
}

type service struct {
	repo    repositories.ReconciliationRepository
	metrics MetricsCollector
	log     *slog.Logger
}

func NewService(repo repositories.ReconciliationRepository, metrics MetricsCollector, log *slog.Logger) Service {
	if repo == nil || log == nil {
		panic("reconciliation: repo and log are required")
	}
	return &service{repo: repo, metrics: metrics, log: log}
}

func (s *service) Record(ctx context.Context, rec *models.Reconciliation) string {
	const op = "reconciliation.Record"

	if rec.ReconciliationID == "" {
		rec.ReconciliationID = uuid.NewString()
	}
	if s.metrics != nil {
		s.metrics.RecordReconciliation(rec.Reason)
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	log := s.log.With(
		sl.String("op", op),
		sl.String("reconciliation_id", rec.ReconciliationID),
		sl.String("reason", rec.Reason),
		sl.String("user_id", rec.UserID),
	)

	if err := s.repo.Create(wctx, rec); err != nil {
		log.Error("RECONCILIATION RECORD NOT PERSISTED",
			sl.Err(err),
			sl.String("service", rec.Service),
			sl.String("account_ref", rec.AccountRef),
			sl.String("wallet_type", string(rec.WalletType)),
			sl.Int64("amount", rec.Amount),
			sl.Int64("fee", rec.Fee),
			sl.String("provider_ref", rec.ProviderRef),
			sl.Any("details", rec.Details),
		)
		return rec.ReconciliationID
	}

	log.Warn("reconciliation required")
	return rec.ReconciliationID
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]models.Reconciliation, int64, error) {
	recs, total, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("reconciliation.List: %w", appErrors.Internal("failed to list reconciliations", err))
	}
	return recs, total, nil
}

func (s *service) Resolve(ctx context.Context, reconciliationID, note string) (*models.Reconciliation, error) {
	const op = "reconciliation.Resolve"

	rec, err := s.repo.Resolve(ctx, reconciliationID, note)
	switch {
	case errors.Is(err, repositories.ErrReconciliationNotFound):
		return nil, fmt.Errorf("%s: %w", op, appErrors.NotFound("RECONCILIATION_NOT_FOUND", "reconciliation not found"))
	case errors.Is(err, repositories.ErrAlreadyResolved):
		return nil, fmt.Errorf("%s: %w", op, appErrors.Validation("ALREADY_RESOLVED", "reconciliation already resolved"))
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, appErrors.Internal("failed to resolve reconciliation", err))
	}

	s.log.Info("reconciliation resolved", sl.String("reconciliation_id", reconciliationID))
	return rec, nil
}

// RequiredError builds the non-retryable error returned to the caller.
func RequiredError(reconciliationID string, cause error) *appErrors.DomainError {
	return &appErrors.DomainError{
		Kind:    appErrors.KindReconciliationRequired,
		Code:    "RECONCILIATION_REQUIRED",
		Message: "payment outcome is being reconciled, reference " + reconciliationID,
		Err:     cause,
	}
}
