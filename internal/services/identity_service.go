/**
 * @description
 * Identity Service.
 * Maps a wallet address to a user row, creating one on first sight.
 * The unique index on users.wallet_address is the source of truth for
 * "one row per address"; a lost insert race is resolved by re-fetching.
 * Recently ensured users are cached in Redis so repeat connects within a
 * session skip the DB round-trip entirely.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/redis/go-redis/v9
 * - backend/internal/models
 * - backend/internal/logger
 */

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	EnsuredUserKeyPrefix = "user:ensured:"
	EnsuredUserTTL       = 24 * time.Hour
)

// UserStore is the persistence dependency of the resolver. Lookups signal
// a miss with gorm.ErrRecordNotFound.
type UserStore interface {
	FindByWallet(ctx context.Context, walletAddress string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) FindByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) Insert(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

type IdentityService struct {
	Store UserStore
	Redis *redis.Client
}

func NewIdentityService(db *gorm.DB, rdb *redis.Client) *IdentityService {
	return &IdentityService{Store: &gormUserStore{db: db}, Redis: rdb}
}

// EnsureUser returns the user row for walletAddress, creating it if absent.
// Calling it concurrently with the same address never creates two rows:
// the insert that loses the race hits the unique index and falls back to a
// re-fetch.
func (s *IdentityService) EnsureUser(ctx context.Context, walletAddress string) (*models.User, error) {
	normalized := NormalizeAddress(walletAddress)
	if normalized == "" {
		return nil, errors.New("wallet address is required")
	}

	// 1. Try the session cache first
	if cached := s.getCachedUser(ctx, normalized); cached != nil {
		return cached, nil
	}

	// 2. Lookup by normalized address
	user, err := s.Store.FindByWallet(ctx, normalized)
	if err == nil {
		s.cacheUser(ctx, user)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		// "not found" is a normal miss; anything else is a real failure
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	// 3. Miss: insert a new row
	created := &models.User{WalletAddress: normalized}
	if insertErr := s.Store.Insert(ctx, created); insertErr != nil {
		if isUniqueViolation(insertErr) {
			// A concurrent request created the user first; fetch theirs.
			existing, refetchErr := s.Store.FindByWallet(ctx, normalized)
			if refetchErr != nil {
				return nil, fmt.Errorf("failed to fetch user after insert race: %w", refetchErr)
			}
			s.cacheUser(ctx, existing)
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", insertErr)
	}

	logger.Info("Created user for wallet %s", normalized)
	s.cacheUser(ctx, created)
	return created, nil
}

// getCachedUser returns the cached row for an address, or nil on a miss.
// Redis being down is not a reason to fail identity resolution, so any
// cache error reads as a miss.
func (s *IdentityService) getCachedUser(ctx context.Context, address string) *models.User {
	if s.Redis == nil {
		return nil
	}
	val, err := s.Redis.Get(ctx, EnsuredUserKeyPrefix+address).Result()
	if err != nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil
	}
	return &user
}

func (s *IdentityService) cacheUser(ctx context.Context, user *models.User) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, EnsuredUserKeyPrefix+user.WalletAddress, data, EnsuredUserTTL).Err(); err != nil {
		logger.Error("Failed to cache ensured user %s: %v", user.WalletAddress, err)
	}
}
