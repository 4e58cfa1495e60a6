package services

import (
	"context"
	"encoding/json"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

func TestJoinImagesWithDevices(t *testing.T) {
	cid := "QmTest"
	images := []models.Image{
		{ID: 1, WalletAddress: "0xDEF0000000000000000000000000000000000001", ImageCID: &cid},
		{ID: 2, WalletAddress: "0xorphan"},
		{ID: 3, WalletAddress: ""},
	}
	devices := []models.Device{
		{ID: 10, WalletAddress: "0xdef0000000000000000000000000000000000001", OwnerAddress: "0xabc"},
	}

	assets := joinImagesWithDevices(images, devices)

	if len(assets) != 3 {
		t.Fatalf("expected all images kept, got %d", len(assets))
	}

	// Case-insensitive match attaches the device
	if assets[0].Device == nil || assets[0].Device.ID != 10 {
		t.Errorf("expected image 1 joined to device 10, got %+v", assets[0].Device)
	}

	// Unmatched images keep a nil device instead of being dropped
	if assets[1].Device != nil {
		t.Errorf("expected nil device for unmatched image, got %+v", assets[1].Device)
	}
	if assets[2].Device != nil {
		t.Errorf("expected nil device for empty wallet address, got %+v", assets[2].Device)
	}
}

func TestGetAllMarketplaceAssets_CacheHit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	cached := []MarketplaceAsset{
		{Image: models.Image{ID: 7, WalletAddress: "0xdef"}},
	}
	data, _ := json.Marshal(cached)
	if err := mr.Set(CacheKeyMarketplace, string(data)); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	// No DB wired: a cache hit must return before any store access
	service := NewAssetService(nil, redisClient, nil)
	assets, err := service.GetAllMarketplaceAssets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 || assets[0].ID != 7 {
		t.Fatalf("expected cached asset, got %+v", assets)
	}
}
