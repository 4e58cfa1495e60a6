/**
 * @description
 * Device registration API handler.
 * Validates the submission, then delegates to the device registry service.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 * - backend/internal/models
 */

package handlers

import (
	"context"
	"errors"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/deepshare-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// DeviceRegistrar registers a device under an owner wallet.
type DeviceRegistrar interface {
	Register(ctx context.Context, deviceAddress, metadata, ownerAddress string) (*models.Device, error)
}

type DeviceHandler struct {
	Devices DeviceRegistrar
}

func NewDeviceHandler(devices DeviceRegistrar) *DeviceHandler {
	return &DeviceHandler{Devices: devices}
}

// SubmitDeviceRequest defines the registration payload
type SubmitDeviceRequest struct {
	WalletAddress string `json:"wallet_address"`
	Metadata      string `json:"metadata"`
	OwnerAddress  string `json:"owner_address"`
}

// SubmitDevice registers a data-capture device
// POST /api/submit-device
func (h *DeviceHandler) SubmitDevice(c *fiber.Ctx) error {
	var req SubmitDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// Each required field is validated independently, before any store access
	if req.WalletAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Wallet address is required"})
	}
	if req.Metadata == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Metadata is required"})
	}
	if req.OwnerAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Owner address is required"})
	}

	device, err := h.Devices.Register(c.Context(), req.WalletAddress, req.Metadata, req.OwnerAddress)
	if err != nil {
		if errors.Is(err, services.ErrDeviceExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Device already exists",
				"code":  "DEVICE_EXISTS",
			})
		}
		logger.Error("SubmitDevice: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    []models.Device{*device},
	})
}
