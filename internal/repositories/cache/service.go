package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ofo/internal/models"
)

type CacheService struct {
	store Store
	ttl   time.Duration
}

func NewCacheService(store Store, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		store: store,
		ttl:   defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.store.Set(ctx, key, data, ttl)
}

// SetIfAbsent stores value only when key is not present yet.
func (s *CacheService) SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.store.SetNX(ctx, key, data, ttl)
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.store.Delete(ctx, keys...)
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Account snapshots
func (s *CacheService) CacheAccount(ctx context.Context, account *models.Account) error {
	if account == nil {
		return errors.New("cannot cache nil account")
	}
	return s.Set(ctx, s.GenerateKey("account", "user", account.UserID), account)
}

// CacheAccountIfAbsent stores the snapshot only when none is cached, so a
// read-through fill never replaces a snapshot written after a commit.
func (s *CacheService) CacheAccountIfAbsent(ctx context.Context, account *models.Account) (bool, error) {
	if account == nil {
		return false, errors.New("cannot cache nil account")
	}
	return s.SetIfAbsent(ctx, s.GenerateKey("account", "user", account.UserID), account, s.ttl)
}

func (s *CacheService) GetAccount(ctx context.Context, userID string) (*models.Account, bool, error) {
	var account models.Account
	found, err := s.Get(ctx, s.GenerateKey("account", "user", userID), &account)
	if err != nil || !found {
		return nil, false, err
	}
	return &account, true, nil
}

func (s *CacheService) InvalidateAccounts(ctx context.Context, userIDs ...string) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, s.GenerateKey("account", "user", id))
	}
	return s.Delete(ctx, keys...)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, s.GenerateKey("user", "id", user.UserID), user)
}

func (s *CacheService) GetUser(ctx context.Context, userID string) (*models.User, bool, error) {
	var user models.User
	found, err := s.Get(ctx, s.GenerateKey("user", "id", userID), &user)
	if err != nil || !found {
		return nil, false, err
	}
	return &user, true, nil
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes the underlying store
func (s *CacheService) Close() error {
	return s.store.Close()
}
