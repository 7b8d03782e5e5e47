package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the wallet holder. Cash and Point are the two balances of the
// account and are only written by the ledger repository.
type User struct {
	UserID       string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `gorm:"index" json:"email"`
	PhoneNumber  string    `gorm:"uniqueIndex;not null" json:"phone_number"`
	SecurityCode string    `json:"-"`
	Role         string    `gorm:"default:'user'" json:"role"`
	IsVerified   bool      `json:"is_verified"`
	TokenVersion int       `gorm:"default:1" json:"-"`
	Cash         int64     `gorm:"not null;default:0" json:"cash"`
	Point        int64     `gorm:"not null;default:0" json:"point"`
	Devices      []Device  `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}

// Account is the balance view of a user.
type Account struct {
	UserID string `json:"user_id"`
	Cash   int64  `json:"cash"`
	Point  int64  `json:"point"`
}

func (a Account) Balance(w WalletType) int64 {
	if w == WalletPoint {
		return a.Point
	}
	return a.Cash
}

// Device is a push notification target registered by the mobile app.
type Device struct {
	DeviceID  string    `gorm:"primaryKey;type:varchar(36)" json:"device_id"`
	UserID    string    `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	PlayerID  string    `gorm:"not null" json:"player_id"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.DeviceID == "" {
		d.DeviceID = uuid.NewString()
	}
	return nil
}
