/**
 * @description
 * Marketplace API handler.
 * Serves the global image/device join used by the marketplace view.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"context"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// MarketplaceReader exposes the global asset join.
type MarketplaceReader interface {
	GetAllMarketplaceAssets(ctx context.Context) ([]services.MarketplaceAsset, error)
}

type MarketplaceHandler struct {
	Assets MarketplaceReader
}

func NewMarketplaceHandler(assets MarketplaceReader) *MarketplaceHandler {
	return &MarketplaceHandler{Assets: assets}
}

// GetAssets returns every image joined with its capturing device
// GET /api/marketplace/assets
func (h *MarketplaceHandler) GetAssets(c *fiber.Ctx) error {
	assets, err := h.Assets.GetAllMarketplaceAssets(c.Context())
	if err != nil {
		logger.Error("GetAssets: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": assets})
}
