package main

import (
	"context"
	"log"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/deepshare-project/backend/internal/config"
	"github.com/deepshare-project/backend/internal/db"
	"github.com/deepshare-project/backend/internal/ipfs"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/deepshare-project/backend/internal/services"
	"github.com/redis/go-redis/v9"
)

// One-shot sanity check against the live store: runs the marketplace join
// against an in-memory Redis and reports row counts. Useful after schema
// changes on the managed Postgres.
func main() {
	log.Println("🚀 Running marketplace join check...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		log.Fatalf("failed to start in-memory redis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	assetService := services.NewAssetService(pgDB, redisClient, ipfs.NewClient(cfg))

	ctx := context.Background()

	assets, err := assetService.GetAllMarketplaceAssets(ctx)
	if err != nil {
		log.Fatalf("marketplace join failed: %v", err)
	}

	unmatched := 0
	for _, asset := range assets {
		if asset.Device == nil {
			unmatched++
		}
	}

	var deviceCount, userCount, derivativeCount int64
	if err := pgDB.Model(&models.Device{}).Count(&deviceCount).Error; err != nil {
		log.Printf("device count failed: %v", err)
	}
	if err := pgDB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		log.Printf("user count failed: %v", err)
	}
	if err := pgDB.Model(&models.Derivative{}).Count(&derivativeCount).Error; err != nil {
		log.Printf("derivative count failed: %v", err)
	}

	log.Printf("users=%d devices=%d derivatives=%d marketplace_assets=%d (unmatched device: %d)",
		userCount, deviceCount, derivativeCount, len(assets), unmatched)
}
