package models

import (
	"time"
)

// Transaction is one leg of a value movement. Rows are insert-only.
type Transaction struct {
	TransactionID string     `gorm:"primaryKey;type:varchar(36)" json:"transaction_id"`
	UserID        string     `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Amount        int64      `gorm:"not null" json:"amount"`
	Fee           int64      `gorm:"not null;default:0" json:"fee"`
	WalletType    WalletType `gorm:"type:varchar(10);not null" json:"wallet_type"`
	Flow          Flow       `gorm:"type:varchar(10);not null" json:"flow"`
	TargetType    TargetType `gorm:"type:varchar(10);not null" json:"target_type"`
	TargetID      string     `gorm:"type:varchar(36)" json:"target_id"`
	Note          string     `gorm:"type:varchar(100)" json:"note"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

// BalanceHistory is a snapshot of one wallet balance taken right after
// a mutation.
type BalanceHistory struct {
	BalanceHistoryID string     `gorm:"primaryKey;type:varchar(36)" json:"balance_history_id"`
	UserID           string     `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Type             WalletType `gorm:"type:varchar(10);not null" json:"type"`
	Balance          int64      `gorm:"not null" json:"balance"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
}
