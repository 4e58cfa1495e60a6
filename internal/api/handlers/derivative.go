/**
 * @description
 * Derivative API handler.
 * Records a derivative IP registration after the chain transaction
 * completed client-side.
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

// DerivativeStorer persists derivative registration records.
type DerivativeStorer interface {
	Store(ctx context.Context, input services.StoreDerivativeInput) (*models.Derivative, error)
}

type DerivativeHandler struct {
	Derivatives DerivativeStorer
}

func NewDerivativeHandler(derivatives DerivativeStorer) *DerivativeHandler {
	return &DerivativeHandler{Derivatives: derivatives}
}

// StoreDerivativeRequest mirrors the payload reported by the mint workflow
type StoreDerivativeRequest struct {
	ParentAssetID  *int64  `json:"parentAssetId"`
	ParentIPID     *string `json:"parentIpId"`
	DerivativeIPID string  `json:"derivativeIpId"`
	TxHash         string  `json:"txHash"`
	UserAddress    string  `json:"userAddress"`
	ImageCID       *string `json:"imageCid"`
	MetadataCID    *string `json:"metadataCid"`
	IPMetadataCID  *string `json:"ipMetadataCid"`
	NFTMetadataCID *string `json:"nftMetadataCid"`
	LicenseTermsID *int64  `json:"licenseTermsId"`
}

// StoreDerivative records a completed derivative registration
// POST /api/story/store-derivative
func (h *DerivativeHandler) StoreDerivative(c *fiber.Ctx) error {
	var req StoreDerivativeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.DerivativeIPID == "" || req.TxHash == "" || req.UserAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	_, err := h.Derivatives.Store(c.Context(), services.StoreDerivativeInput{
		DerivativeIPID: req.DerivativeIPID,
		TxHash:         req.TxHash,
		UserAddress:    req.UserAddress,
		ParentAssetID:  req.ParentAssetID,
		ParentIPID:     req.ParentIPID,
		ImageCID:       req.ImageCID,
		MetadataCID:    req.MetadataCID,
		IPMetadataCID:  req.IPMetadataCID,
		NFTMetadataCID: req.NFTMetadataCID,
		LicenseTermsID: req.LicenseTermsID,
	})
	if err != nil {
		logger.Error("StoreDerivative: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}
