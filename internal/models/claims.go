package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionLedgerRead          = "ledger:read"
	PermissionLedgerWrite         = "ledger:write"
	PermissionReconciliationRead  = "reconciliation:read"
	PermissionReconciliationWrite = "reconciliation:write"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       string   `json:"user_id"`
	PhoneNumber  string   `json:"phone_number"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionLedgerRead,
			PermissionLedgerWrite,
			PermissionReconciliationRead,
			PermissionReconciliationWrite,
		}
	case "user":
		return []string{
			PermissionLedgerRead,
			PermissionLedgerWrite,
		}
	default:
		return []string{}
	}
}
