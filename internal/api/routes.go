/**
 * @description
 * API Route definitions.
 * Builds the service graph and assigns handlers to routes.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/services
 * - backend/internal/story
 * - backend/internal/ipfs
 */

package api

import (
	"github.com/deepshare-project/backend/internal/api/handlers"
	"github.com/deepshare-project/backend/internal/config"
	"github.com/deepshare-project/backend/internal/ipfs"
	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/services"
	"github.com/deepshare-project/backend/internal/story"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// 1. External clients
	ipfsClient := ipfs.NewClient(cfg)

	storyClient, err := story.NewClient(cfg)
	if err != nil {
		// Chain-backed routes respond 503 until the RPC config is fixed;
		// the registration and read paths keep working.
		logger.Error("Failed to init Story client: %v", err)
	}

	// 2. Services
	identityService := services.NewIdentityService(db, rdb)
	deviceService := services.NewDeviceService(db)
	assetService := services.NewAssetService(db, rdb, ipfsClient)
	derivativeService := services.NewDerivativeService(db)

	// 3. Handlers
	userHandler := handlers.NewUserHandler(identityService)
	deviceHandler := handlers.NewDeviceHandler(deviceService)
	derivativeHandler := handlers.NewDerivativeHandler(derivativeService)
	ipfsHandler := handlers.NewIPFSHandler(ipfsClient)
	marketplaceHandler := handlers.NewMarketplaceHandler(assetService)

	dashboardHandler := handlers.NewDashboardHandler(assetService, nil)
	storyHandler := handlers.NewStoryHandler(nil)
	if storyClient != nil {
		claimService := services.NewClaimService(assetService, storyClient)
		dashboardHandler = handlers.NewDashboardHandler(assetService, claimService)
		storyHandler = handlers.NewStoryHandler(storyClient)
	}

	// 4. Routes
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "deepshare-backend"})
	})

	api.Post("/user/ensure", userHandler.EnsureUser)
	api.Post("/submit-device", deviceHandler.SubmitDevice)
	api.Post("/ipfs/upload", ipfsHandler.Upload)

	storyGroup := api.Group("/story")
	storyGroup.Post("/store-derivative", derivativeHandler.StoreDerivative)
	storyGroup.Post("/claim-revenue", storyHandler.ClaimRevenue)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/devices", dashboardHandler.GetDevices)
	dashboard.Get("/images", dashboardHandler.GetImages)
	dashboard.Get("/derivatives", dashboardHandler.GetDerivatives)
	dashboard.Get("/claim-history", dashboardHandler.GetClaimHistory)

	marketplace := api.Group("/marketplace")
	marketplace.Get("/assets", marketplaceHandler.GetAssets)
}
