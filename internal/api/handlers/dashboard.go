/**
 * @description
 * Dashboard API handlers.
 * Read-side views for a wallet: its devices, captured images, derivatives,
 * and the aggregated royalty-claim history.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 * - backend/internal/models
 */

package handlers

import (
	"context"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/deepshare-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// DashboardReader exposes the per-user read-side queries.
type DashboardReader interface {
	GetUserDevices(ctx context.Context, owner string) ([]models.Device, error)
	GetUserImages(ctx context.Context, owner string) ([]models.Image, error)
	GetUserDerivatives(ctx context.Context, owner string) ([]models.Derivative, error)
}

// ClaimFetcher builds the aggregated claim ledger for a wallet.
type ClaimFetcher interface {
	FetchClaimHistory(ctx context.Context, walletAddress string) ([]services.ClaimHistoryEntry, error)
}

type DashboardHandler struct {
	Assets DashboardReader
	Claims ClaimFetcher
}

func NewDashboardHandler(assets DashboardReader, claims ClaimFetcher) *DashboardHandler {
	return &DashboardHandler{Assets: assets, Claims: claims}
}

// requireAddress pulls the wallet address query param common to all
// dashboard routes.
func requireAddress(c *fiber.Ctx) (string, bool) {
	address := c.Query("address")
	if address == "" {
		return "", false
	}
	return address, true
}

// GetDevices returns the devices registered under a wallet
// GET /api/dashboard/devices?address=0x..
func (h *DashboardHandler) GetDevices(c *fiber.Ctx) error {
	address, ok := requireAddress(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Address is required"})
	}

	devices, err := h.Assets.GetUserDevices(c.Context(), address)
	if err != nil {
		logger.Error("GetDevices: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": devices})
}

// GetImages returns images captured by the wallet's devices
// GET /api/dashboard/images?address=0x..
func (h *DashboardHandler) GetImages(c *fiber.Ctx) error {
	address, ok := requireAddress(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Address is required"})
	}

	images, err := h.Assets.GetUserImages(c.Context(), address)
	if err != nil {
		logger.Error("GetImages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": images})
}

// GetDerivatives returns derivatives owned by the wallet
// GET /api/dashboard/derivatives?address=0x..
func (h *DashboardHandler) GetDerivatives(c *fiber.Ctx) error {
	address, ok := requireAddress(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Address is required"})
	}

	derivatives, err := h.Assets.GetUserDerivatives(c.Context(), address)
	if err != nil {
		logger.Error("GetDerivatives: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": derivatives})
}

// GetClaimHistory returns the aggregated royalty-claim ledger
// GET /api/dashboard/claim-history?address=0x..
func (h *DashboardHandler) GetClaimHistory(c *fiber.Ctx) error {
	address, ok := requireAddress(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Address is required"})
	}
	if h.Claims == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Chain client is not configured"})
	}

	entries, err := h.Claims.FetchClaimHistory(c.Context(), address)
	if err != nil {
		logger.Error("GetClaimHistory: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": entries})
}
