/**
 * @description
 * Claim-history aggregation service.
 * Builds the unified royalty-claim ledger for a wallet: every
 * RevenueTokenClaimed event on the royalty vaults of the IP assets the
 * wallet owns, across originals and derivatives, newest block first.
 *
 * @dependencies
 * - github.com/ethereum/go-ethereum/common
 * - golang.org/x/sync/errgroup
 * - backend/internal/story
 * - backend/internal/models
 * - backend/internal/logger
 *
 * @notes
 * - Per-IP chain failures are logged and skipped; only the initial database
 *   fetch can fail the whole aggregation.
 * - The scan window is bounded to the most recent ~100k blocks (about two
 *   weeks of Story block time) to keep log queries cheap.
 */

package services

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/deepshare-project/backend/internal/story"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// ClaimScanBlockRange bounds how far back vault logs are scanned.
const ClaimScanBlockRange = 100_000

const (
	AssetTypeOriginal   = "original"
	AssetTypeDerivative = "derivative"
)

// ClaimHistoryEntry is one decoded revenue claim attributed to an owned IP
// asset. Entries are recomputed per request, never persisted.
type ClaimHistoryEntry struct {
	IPID            string     `json:"ipId"`
	Claimer         string     `json:"claimer"`
	Token           string     `json:"token"`
	Amount          string     `json:"amount"`
	AmountFormatted string     `json:"amountFormatted"`
	BlockNumber     uint64     `json:"blockNumber"`
	TransactionHash string     `json:"transactionHash"`
	Timestamp       *time.Time `json:"timestamp"`
	AssetType       string     `json:"assetType"`
	AssetID         *int64     `json:"assetId"`
}

// AssetReader is the read-side dependency of the aggregator.
type AssetReader interface {
	GetUserImages(ctx context.Context, owner string) ([]models.Image, error)
	GetUserDerivatives(ctx context.Context, owner string) ([]models.Derivative, error)
}

// ChainClient is the chain-side dependency of the aggregator.
type ChainClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
	GetRoyaltyVaultAddress(ctx context.Context, ipID common.Address) (common.Address, error)
	FilterRevenueClaims(ctx context.Context, vault common.Address, fromBlock uint64) ([]story.RevenueClaim, error)
	BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error)
}

type assetRef struct {
	assetType string
	assetID   int64
}

type ClaimService struct {
	Assets AssetReader
	Chain  ChainClient
}

func NewClaimService(assets AssetReader, chain ChainClient) *ClaimService {
	return &ClaimService{Assets: assets, Chain: chain}
}

// FetchClaimHistory aggregates revenue-claim events for every IP asset
// owned by walletAddress, sorted by block number descending.
func (s *ClaimService) FetchClaimHistory(ctx context.Context, walletAddress string) ([]ClaimHistoryEntry, error) {
	// 1. Fetch owned images and derivatives in parallel
	var images []models.Image
	var derivatives []models.Derivative

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = s.Assets.GetUserImages(gctx, walletAddress)
		return err
	})
	g.Go(func() error {
		var err error
		derivatives, err = s.Assets.GetUserDerivatives(gctx, walletAddress)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch owned assets: %w", err)
	}

	// 2. Collect distinct IP identifiers and their owning assets
	ipIDs, ipToAsset := collectIPAssets(images, derivatives)

	// 3. No owned IPs: done, without touching the chain
	if len(ipIDs) == 0 {
		return []ClaimHistoryEntry{}, nil
	}

	// 4. Bound the scan window to recent history
	currentBlock, err := s.Chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current block: %w", err)
	}
	var fromBlock uint64
	if currentBlock > ClaimScanBlockRange {
		fromBlock = currentBlock - ClaimScanBlockRange
	}

	// 5. Scan each IP's vault; one bad IP must not abort the rest
	allClaims := make([]ClaimHistoryEntry, 0)
	for _, ipID := range ipIDs {
		claims, err := s.fetchClaimsForIP(ctx, ipID, ipToAsset[ipID], fromBlock)
		if err != nil {
			logger.Error("Failed to fetch claims for IP %s: %v", ipID.Hex(), err)
			continue
		}
		allClaims = append(allClaims, claims...)
	}

	// 6. Sort by block number, most recent first
	sort.SliceStable(allClaims, func(i, j int) bool {
		return allClaims[i].BlockNumber > allClaims[j].BlockNumber
	})

	return allClaims, nil
}

// fetchClaimsForIP resolves the IP's royalty vault and decodes its claim
// events. The vault belongs to exactly one IP, so every event it emits is
// attributed to ipID.
func (s *ClaimService) fetchClaimsForIP(ctx context.Context, ipID common.Address, ref assetRef, fromBlock uint64) ([]ClaimHistoryEntry, error) {
	vault, err := s.Chain.GetRoyaltyVaultAddress(ctx, ipID)
	if err != nil {
		return nil, err
	}

	claims, err := s.Chain.FilterRevenueClaims(ctx, vault, fromBlock)
	if err != nil {
		return nil, err
	}

	entries := make([]ClaimHistoryEntry, 0, len(claims))
	for _, claim := range claims {
		entry := ClaimHistoryEntry{
			IPID:            strings.ToLower(ipID.Hex()),
			Claimer:         strings.ToLower(claim.Claimer.Hex()),
			Token:           strings.ToLower(claim.Token.Hex()),
			Amount:          claim.Amount.String(),
			AmountFormatted: FormatEther(claim.Amount),
			BlockNumber:     claim.BlockNumber,
			TransactionHash: claim.TxHash.Hex(),
			AssetType:       ref.assetType,
		}
		if ref.assetID != 0 {
			id := ref.assetID
			entry.AssetID = &id
		}

		// Timestamp is best-effort; a failed header lookup leaves it nil
		if ts, err := s.Chain.BlockTime(ctx, claim.BlockNumber); err == nil {
			t := ts
			entry.Timestamp = &t
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// collectIPAssets extracts the distinct on-chain IP identifiers from the
// owned assets, remembering which asset each belongs to. Derivatives are
// applied after images, so a shared identifier resolves to the derivative.
func collectIPAssets(images []models.Image, derivatives []models.Derivative) ([]common.Address, map[common.Address]assetRef) {
	var ipIDs []common.Address
	ipToAsset := make(map[common.Address]assetRef)

	add := func(addr common.Address, ref assetRef) {
		if _, seen := ipToAsset[addr]; !seen {
			ipIDs = append(ipIDs, addr)
		}
		ipToAsset[addr] = ref
	}

	for _, image := range images {
		if image.IP == nil {
			continue
		}
		if addr, ok := ExtractIPAddress(*image.IP); ok {
			add(addr, assetRef{assetType: AssetTypeOriginal, assetID: image.ID})
		}
	}
	for _, derivative := range derivatives {
		if addr, ok := ExtractIPAddress(derivative.DerivativeIPID); ok {
			add(addr, assetRef{assetType: AssetTypeDerivative, assetID: derivative.ID})
		}
	}

	return ipIDs, ipToAsset
}

// FormatEther renders a wei amount as a decimal ether string, trailing
// zeros trimmed.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(wei, big.NewInt(1e18))
	s := r.FloatString(18)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
