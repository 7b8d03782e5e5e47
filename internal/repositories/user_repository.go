package repositories

import (
	"context"
	"errors"

	"ofo/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPhoneTaken        = errors.New("phone number already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the identity lookups used by the transfer engine
// and the auth middleware. Balances are never written through it.
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by id, served from cache when possible
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// GetByPhone retrieves a user by normalized phone number
	GetByPhone(ctx context.Context, phone string) (*models.User, error)

	// ListDevices returns the push targets registered for a user
	ListDevices(ctx context.Context, userID string) ([]models.Device, error)

	AddDevice(ctx context.Context, device *models.Device) error
}
