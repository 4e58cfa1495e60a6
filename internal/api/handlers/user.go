/**
 * @description
 * User API handler.
 * Ensures a user row exists for a connected wallet.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/models
 */

package handlers

import (
	"context"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// UserEnsurer resolves a wallet address to its user row, creating one on
// first sight.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, walletAddress string) (*models.User, error)
}

type UserHandler struct {
	Identity UserEnsurer
}

func NewUserHandler(identity UserEnsurer) *UserHandler {
	return &UserHandler{Identity: identity}
}

// EnsureUserRequest defines the wallet-connect payload
type EnsureUserRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// EnsureUser returns the user row for a wallet, creating it if needed
// POST /api/user/ensure
func (h *UserHandler) EnsureUser(c *fiber.Ctx) error {
	var req EnsureUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.WalletAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Wallet address is required"})
	}

	user, err := h.Identity.EnsureUser(c.Context(), req.WalletAddress)
	if err != nil {
		logger.Error("EnsureUser: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}
