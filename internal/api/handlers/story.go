/**
 * @description
 * Story royalty API handler.
 * Submits server-signed claimAllRevenue transactions for an IP asset.
 * Only enabled when a signing key is configured.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/ethereum/go-ethereum/common
 * - backend/internal/story
 * - backend/internal/services
 */

package handlers

import (
	"context"
	"strings"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/services"
	"github.com/deepshare-project/backend/internal/story"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
)

// RevenueClaimer submits royalty claims on chain.
type RevenueClaimer interface {
	CanSign() bool
	ClaimAllRevenue(ctx context.Context, ancestorIP, claimer common.Address, childIPs, royaltyPolicies, currencyTokens []common.Address) (string, error)
}

type StoryHandler struct {
	Chain RevenueClaimer
}

func NewStoryHandler(chain RevenueClaimer) *StoryHandler {
	return &StoryHandler{Chain: chain}
}

// ClaimRevenueRequest defines the claim payload. Child IP ids are included
// when the parent wants derivative revenue claimed along with its own;
// royaltyPolicy picks which policy contract routed that revenue, LRP when
// unspecified.
type ClaimRevenueRequest struct {
	IPID          string   `json:"ipId"`
	ChildIPIDs    []string `json:"childIpIds"`
	RoyaltyPolicy string   `json:"royaltyPolicy"`
}

// royaltyPolicyAddress maps a payload policy name to its contract address.
func royaltyPolicyAddress(name string) (common.Address, bool) {
	switch strings.ToUpper(name) {
	case "", "LRP":
		return common.HexToAddress(story.RoyaltyPolicyLRP), true
	case "LAP":
		return common.HexToAddress(story.RoyaltyPolicyLAP), true
	}
	return common.Address{}, false
}

// ClaimRevenue claims all pending revenue for an IP asset
// POST /api/story/claim-revenue
func (h *StoryHandler) ClaimRevenue(c *fiber.Ctx) error {
	if h.Chain == nil || !h.Chain.CanSign() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Server-side claiming is not configured"})
	}

	var req ClaimRevenueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ipAddr, ok := services.ExtractIPAddress(req.IPID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid IP address"})
	}

	var childIPs []common.Address
	var policies []common.Address
	for _, child := range req.ChildIPIDs {
		if addr, ok := services.ExtractIPAddress(child); ok {
			childIPs = append(childIPs, addr)
		}
	}
	if len(childIPs) > 0 {
		// Claims over children need the policy contract their revenue
		// flowed through
		policy, ok := royaltyPolicyAddress(req.RoyaltyPolicy)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown royalty policy"})
		}
		policies = []common.Address{policy}
	}

	// Revenue is claimed to the IP Account itself
	txHash, err := h.Chain.ClaimAllRevenue(c.Context(), ipAddr, ipAddr, childIPs, policies, nil)
	if err != nil {
		logger.Error("ClaimRevenue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "txHash": txHash})
}
