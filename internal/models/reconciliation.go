package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReconciliationOpen     = "OPEN"
	ReconciliationResolved = "RESOLVED"
)

// Reconciliation reasons.
const (
	ReasonGatewayAmbiguous     = "gateway_ambiguous"
	ReasonLocalCommitFailed    = "local_commit_failed"
	ReasonFundingCaptureFailed = "funding_capture_failed"
	ReasonFundingReleaseFailed = "funding_release_failed"
)

// Reconciliation is a durable record of an operation whose external and
// local outcomes may disagree. Operators resolve them manually.
type Reconciliation struct {
	ReconciliationID string     `gorm:"primaryKey;type:varchar(36)" json:"reconciliation_id"`
	UserID           string     `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Reason           string     `gorm:"type:varchar(40);not null" json:"reason"`
	Service          string     `gorm:"type:varchar(40)" json:"service"`
	AccountRef       string     `json:"account_ref"`
	WalletType       WalletType `gorm:"type:varchar(10)" json:"wallet_type"`
	Amount           int64      `json:"amount"`
	Fee              int64      `json:"fee"`
	ProviderRef      string     `json:"provider_ref"`
	Details          JSON       `gorm:"type:jsonb" json:"details"`
	Status           string     `gorm:"type:varchar(10);index;not null;default:'OPEN'" json:"status"`
	ResolutionNote   string     `json:"resolution_note"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (r *Reconciliation) BeforeCreate(tx *gorm.DB) error {
	if r.ReconciliationID == "" {
		r.ReconciliationID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = ReconciliationOpen
	}
	return nil
}
