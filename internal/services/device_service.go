/**
 * @description
 * Device Registry Service.
 * Registers a data-capture device (identified by its own wallet address)
 * under an owning user's wallet address, enforcing one registration per
 * device address.
 *
 * @dependencies
 * - gorm.io/gorm
 * - backend/internal/models
 * - backend/internal/logger
 */

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"gorm.io/gorm"
)

// DeviceStore is the persistence dependency of the registry. Lookups
// signal a miss with gorm.ErrRecordNotFound.
type DeviceStore interface {
	FindByWallet(ctx context.Context, walletAddress string) (*models.Device, error)
	Insert(ctx context.Context, device *models.Device) error
}

type gormDeviceStore struct {
	db *gorm.DB
}

func (s *gormDeviceStore) FindByWallet(ctx context.Context, walletAddress string) (*models.Device, error) {
	var device models.Device
	if err := s.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *gormDeviceStore) Insert(ctx context.Context, device *models.Device) error {
	return s.db.WithContext(ctx).Create(device).Error
}

type DeviceService struct {
	Store DeviceStore
}

func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{Store: &gormDeviceStore{db: db}}
}

// Register creates a Devices row for deviceAddress owned by ownerAddress.
// Returns ErrDeviceExists when the device address is already registered.
// The pre-check gives the common case a clean conflict response; the unique
// index on wallet_address backstops the race between concurrent
// registrations, and a 23505 on the insert maps to the same conflict rather
// than a generic store error.
func (s *DeviceService) Register(ctx context.Context, deviceAddress, metadata, ownerAddress string) (*models.Device, error) {
	normalizedDevice := NormalizeAddress(deviceAddress)
	normalizedOwner := NormalizeAddress(ownerAddress)

	// 1. Duplicate check
	_, err := s.Store.FindByWallet(ctx, normalizedDevice)
	if err == nil {
		return nil, ErrDeviceExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check device existence: %w", err)
	}

	// 2. Insert
	device := models.Device{
		WalletAddress: normalizedDevice,
		Metadata:      metadata,
		OwnerAddress:  normalizedOwner,
	}
	if insertErr := s.Store.Insert(ctx, &device); insertErr != nil {
		if isUniqueViolation(insertErr) {
			// Lost a race with a concurrent registration of the same device.
			return nil, ErrDeviceExists
		}
		return nil, fmt.Errorf("failed to insert device: %w", insertErr)
	}

	logger.Info("Registered device %s for owner %s", normalizedDevice, normalizedOwner)
	return &device, nil
}
