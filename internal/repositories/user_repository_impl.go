package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
	log   *slog.Logger
}

// NewUserRepository creates a new instance of UserRepository. cache may be nil.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService, log *slog.Logger) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
		log:   log,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPhoneTaken
		}
		return fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if r.cache != nil {
		if user, found, err := r.cache.GetUser(ctx, userID); err == nil && found {
			return user, nil
		} else if err != nil {
			r.log.Warn("user cache read failed", sl.String("user_id", userID), sl.Err(err))
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(ctx, &user); err != nil {
			r.log.Warn("failed to cache user", sl.String("user_id", userID), sl.Err(err))
		}
	}

	return &user, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return &user, nil
}

func (r *userRepository) ListDevices(ctx context.Context, userID string) ([]models.Device, error) {
	var devices []models.Device
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return devices, nil
}

func (r *userRepository) AddDevice(ctx context.Context, device *models.Device) error {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return nil
}
