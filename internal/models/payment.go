package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records a bill settled through the aggregator. Details holds
// the raw provider response.
type Payment struct {
	PaymentID     string         `gorm:"primaryKey;type:varchar(36)" json:"payment_id"`
	AccountNumber string         `gorm:"not null" json:"account_number"`
	Service       PaymentService `gorm:"type:varchar(20);not null" json:"service"`
	Details       JSON           `gorm:"type:jsonb" json:"details"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == "" {
		p.PaymentID = uuid.NewString()
	}
	return nil
}
