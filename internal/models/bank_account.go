package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankAccount struct {
	BankAccountID string    `gorm:"primaryKey;type:varchar(36)" json:"bank_account_id"`
	AccountNumber string    `gorm:"uniqueIndex:idx_bank_account_number;not null" json:"account_number"`
	Bank          BankType  `gorm:"uniqueIndex:idx_bank_account_number;type:varchar(20);not null" json:"bank"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (b *BankAccount) BeforeCreate(tx *gorm.DB) error {
	if b.BankAccountID == "" {
		b.BankAccountID = uuid.NewString()
	}
	return nil
}
