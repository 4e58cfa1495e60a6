/**
 * @description
 * IPFS upload API handler.
 * Proxies JSON metadata pinning to Pinata using the server-held credential,
 * so the browser never sees the JWT.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/ipfs
 */

package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/deepshare-project/backend/internal/ipfs"
	"github.com/deepshare-project/backend/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MetadataPinner pins JSON content to IPFS and returns its CID.
type MetadataPinner interface {
	PinJSON(ctx context.Context, name string, content interface{}) (string, error)
}

type IPFSHandler struct {
	Pinner MetadataPinner
}

func NewIPFSHandler(pinner MetadataPinner) *IPFSHandler {
	return &IPFSHandler{Pinner: pinner}
}

// UploadRequest defines the pinning payload
type UploadRequest struct {
	Metadata interface{} `json:"metadata"`
	Type     string      `json:"type"`
}

// Upload pins a JSON metadata blob
// POST /api/ipfs/upload
func (h *IPFSHandler) Upload(c *fiber.Ctx) error {
	var req UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Metadata == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Metadata is required"})
	}

	if req.Type == "" {
		req.Type = "json"
	}
	if req.Type != "json" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported upload type"})
	}

	name := fmt.Sprintf("metadata-%s.json", uuid.NewString())
	cid, err := h.Pinner.PinJSON(c.Context(), name, req.Metadata)
	if err != nil {
		logger.Error("Upload: %v", err)
		if errors.Is(err, ipfs.ErrMissingCredential) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "PINATA_JWT is not configured"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "cid": cid})
}
