package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ofo/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReconciliationNotFound = errors.New("reconciliation not found")
	ErrAlreadyResolved        = errors.New("reconciliation already resolved")
)

// ReconciliationRepository persists records outside of any ledger unit of
// work, so they survive the rollback that produced them.
type ReconciliationRepository interface {
	Create(ctx context.Context, rec *models.Reconciliation) error
	List(ctx context.Context, status string, limit, offset int) ([]models.Reconciliation, int64, error)
	Resolve(ctx context.Context, reconciliationID, note string) (*models.Reconciliation, error)
}

type reconciliationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReconciliationRepository(db *gorm.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db, now: time.Now}
}

func (r *reconciliationRepository) Create(ctx context.Context, rec *models.Reconciliation) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create reconciliation: %w", err)
	}
	return nil
}

func (r *reconciliationRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Reconciliation, int64, error) {
	var (
		recs  []models.Reconciliation
		total int64
	)
	q := r.db.WithContext(ctx).Model(&models.Reconciliation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reconciliations: %w", err)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	return recs, total, nil
}

func (r *reconciliationRepository) Resolve(ctx context.Context, reconciliationID, note string) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reconciliation_id = ?", reconciliationID).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReconciliationNotFound
			}
			return err
		}
		if rec.Status == models.ReconciliationResolved {
			return ErrAlreadyResolved
		}
		now := r.now()
		res := tx.Model(&models.Reconciliation{}).
			Where("reconciliation_id = ? AND status = ?", reconciliationID, models.ReconciliationOpen).
			Updates(map[string]interface{}{
				"status":          models.ReconciliationResolved,
				"resolution_note": note,
				"resolved_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyResolved
		}
		rec.Status = models.ReconciliationResolved
		rec.ResolutionNote = note
		rec.ResolvedAt = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrReconciliationNotFound) || errors.Is(err, ErrAlreadyResolved) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve reconciliation: %w", err)
	}
	return &rec, nil
}
