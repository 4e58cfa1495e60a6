/**
 * @description
 * Asset read-side service.
 * Produces per-user and marketplace views over images and derivatives joined
 * with device ownership. Owner filters are pushed into the store as indexed
 * lowercase comparisons; the marketplace view is a left join performed in
 * application code and cached in Redis.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/redis/go-redis/v9
 * - backend/internal/models
 * - backend/internal/ipfs
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/deepshare-project/backend/internal/ipfs"
	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	CacheKeyMarketplace = "marketplace:assets"
	MarketplaceCacheTTL = 5 * time.Minute
)

// MarketplaceAsset is an image joined with its capturing device (nil when
// the image's wallet address matches no registered device).
type MarketplaceAsset struct {
	models.Image
	Device   *models.Device `json:"device"`
	ImageURL string         `json:"image_url,omitempty"`
}

type AssetService struct {
	DB    *gorm.DB
	Redis *redis.Client
	IPFS  *ipfs.Client
}

func NewAssetService(db *gorm.DB, rdb *redis.Client, ipfsClient *ipfs.Client) *AssetService {
	return &AssetService{DB: db, Redis: rdb, IPFS: ipfsClient}
}

// GetUserDevices returns the devices registered under owner, newest first.
func (s *AssetService) GetUserDevices(ctx context.Context, owner string) ([]models.Device, error) {
	normalized := NormalizeAddress(owner)

	var devices []models.Device
	if err := s.DB.WithContext(ctx).
		Where("LOWER(owner_address) = ?", normalized).
		Order("created_at DESC").
		Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch devices: %w", err)
	}
	return devices, nil
}

// GetUserImages returns images captured by the owner's devices, plus images
// self-reported under the owner address itself, newest first.
func (s *AssetService) GetUserImages(ctx context.Context, owner string) ([]models.Image, error) {
	normalized := NormalizeAddress(owner)

	var deviceAddresses []string
	if err := s.DB.WithContext(ctx).Model(&models.Device{}).
		Where("LOWER(owner_address) = ?", normalized).
		Pluck("wallet_address", &deviceAddresses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch devices: %w", err)
	}

	addresses := make([]string, 0, len(deviceAddresses)+1)
	for _, addr := range deviceAddresses {
		if addr != "" {
			addresses = append(addresses, strings.ToLower(addr))
		}
	}
	addresses = append(addresses, normalized)

	var images []models.Image
	if err := s.DB.WithContext(ctx).
		Where("LOWER(wallet_address) IN ?", addresses).
		Order("created_at DESC").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch images: %w", err)
	}
	return images, nil
}

// GetUserDerivatives returns derivatives owned by owner, newest first.
func (s *AssetService) GetUserDerivatives(ctx context.Context, owner string) ([]models.Derivative, error) {
	normalized := NormalizeAddress(owner)

	var derivatives []models.Derivative
	if err := s.DB.WithContext(ctx).
		Where("LOWER(owner_address) = ?", normalized).
		Order("created_at DESC").
		Find(&derivatives).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch derivatives: %w", err)
	}
	return derivatives, nil
}

// GetAllMarketplaceAssets returns every image joined with its device,
// newest first. Results are cached briefly; cache failures fall through to
// the database.
func (s *AssetService) GetAllMarketplaceAssets(ctx context.Context) ([]MarketplaceAsset, error) {
	// 1. Try Redis
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, CacheKeyMarketplace).Result()
		if err == nil {
			var assets []MarketplaceAsset
			if err := json.Unmarshal([]byte(val), &assets); err == nil {
				return assets, nil
			}
			// If unmarshal fails, fall through to DB
		}
	}

	// 2. Fall back to the database join
	assets, err := s.loadMarketplaceAssets(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Cache the joined view
	s.cacheMarketplaceAssets(ctx, assets)

	return assets, nil
}

// RefreshMarketplaceCache recomputes the marketplace join from the database
// and rewrites the cache entry, ignoring any cached value.
func (s *AssetService) RefreshMarketplaceCache(ctx context.Context) error {
	assets, err := s.loadMarketplaceAssets(ctx)
	if err != nil {
		return err
	}
	s.cacheMarketplaceAssets(ctx, assets)
	return nil
}

// loadMarketplaceAssets fetches images and devices and joins them in
// application code.
func (s *AssetService) loadMarketplaceAssets(ctx context.Context) ([]MarketplaceAsset, error) {
	var images []models.Image
	if err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch marketplace images: %w", err)
	}

	var devices []models.Device
	if err := s.DB.WithContext(ctx).Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch devices: %w", err)
	}

	assets := joinImagesWithDevices(images, devices)

	if s.IPFS != nil {
		for i := range assets {
			if assets[i].ImageCID != nil {
				assets[i].ImageURL = s.IPFS.GatewayURL(*assets[i].ImageCID)
			}
		}
	}
	return assets, nil
}

func (s *AssetService) cacheMarketplaceAssets(ctx context.Context, assets []MarketplaceAsset) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(assets)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, CacheKeyMarketplace, data, MarketplaceCacheTTL).Err(); err != nil {
		logger.Error("Failed to cache marketplace assets: %v", err)
	}
}

// joinImagesWithDevices performs a left outer join of images against
// devices by lowercase wallet address. An image with no matching device
// keeps a nil Device rather than being dropped.
func joinImagesWithDevices(images []models.Image, devices []models.Device) []MarketplaceAsset {
	deviceMap := make(map[string]models.Device, len(devices))
	for _, device := range devices {
		if device.WalletAddress != "" {
			deviceMap[strings.ToLower(device.WalletAddress)] = device
		}
	}

	assets := make([]MarketplaceAsset, 0, len(images))
	for _, image := range images {
		asset := MarketplaceAsset{Image: image}
		if image.WalletAddress != "" {
			if device, ok := deviceMap[strings.ToLower(image.WalletAddress)]; ok {
				d := device
				asset.Device = &d
			}
		}
		assets = append(assets, asset)
	}
	return assets
}
