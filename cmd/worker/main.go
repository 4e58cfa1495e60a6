/**
 * @description
 * Worker Service Entry Point.
 * Responsible for background tasks:
 * 1. Keeping the marketplace asset cache warm so the read path rarely hits
 *    the full images/Devices join.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/ipfs
 * - backend/internal/services
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepshare-project/backend/internal/config"
	"github.com/deepshare-project/backend/internal/db"
	"github.com/deepshare-project/backend/internal/ipfs"
	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/services"
)

// Refresh just inside the cache TTL so readers never see a cold cache.
const marketplaceRefreshInterval = 4 * time.Minute

func main() {
	logger.Info("🔥 Starting DeepShare Worker...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Connect DBs
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Postgres connection failed: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Redis connection failed: %v", err)
	}

	// 3. Initialize Services
	ipfsClient := ipfs.NewClient(cfg)
	assetService := services.NewAssetService(pgDB, redisClient, ipfsClient)

	// 4. Context with Cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Refresh Loop
	go func() {
		ticker := time.NewTicker(marketplaceRefreshInterval)
		defer ticker.Stop()

		refresh := func() {
			if err := assetService.RefreshMarketplaceCache(ctx); err != nil {
				logger.Error("Marketplace cache refresh failed: %v", err)
				return
			}
			logger.Info("Marketplace cache refreshed")
		}

		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh()
			}
		}
	}()

	// 6. Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down worker...")
	cancel()
}
