/**
 * @description
 * Chain client for the Story Protocol network.
 * Resolves per-IP royalty vaults, scans vaults for revenue-claim events,
 * and optionally submits claimAllRevenue transactions with a server-held
 * signing key.
 *
 * @dependencies
 * - github.com/ethereum/go-ethereum
 * - backend/internal/config
 * - backend/internal/logger
 *
 * @notes
 * - Vault resolution is a view call on the RoyaltyModule contract.
 * - RevenueTokenClaimed carries no indexed fields and no IP identifier;
 *   a vault belongs to exactly one IP, so the caller attributes events by
 *   the vault it queried.
 */

package story

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/deepshare-project/backend/internal/config"
	"github.com/deepshare-project/backend/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	// Wrapped IP, the royalty currency token on Story
	WIPTokenAddress = "0x1514000000000000000000000000000000000000"

	// Royalty policy contracts
	RoyaltyPolicyLAP = "0xBe54FB168b3c982b7AaE60dB6CF75Bd8447b390E"
	RoyaltyPolicyLRP = "0x9156e603C949481883B1d3355c6f1132D191fC41"
)

// RoyaltyModule ABI for the ipRoyaltyVaults view function
const royaltyModuleABI = `[{"inputs":[{"internalType":"address","name":"ipId","type":"address"}],"name":"ipRoyaltyVaults","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}]`

// IP Royalty Vault ABI, specifically the RevenueTokenClaimed event
const royaltyVaultABI = `[{"anonymous":false,"inputs":[{"indexed":false,"internalType":"address","name":"claimer","type":"address"},{"indexed":false,"internalType":"address","name":"token","type":"address"},{"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"}],"name":"RevenueTokenClaimed","type":"event"}]`

// RoyaltyWorkflows ABI for the claimAllRevenue entry point
const royaltyWorkflowsABI = `[{"inputs":[{"internalType":"address","name":"ancestorIpId","type":"address"},{"internalType":"address","name":"claimer","type":"address"},{"internalType":"address[]","name":"childIpIds","type":"address[]"},{"internalType":"address[]","name":"royaltyPolicies","type":"address[]"},{"internalType":"address[]","name":"currencyTokens","type":"address[]"}],"name":"claimAllRevenue","outputs":[{"internalType":"uint256[]","name":"amountsClaimed","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}]`

// RevenueClaim is a decoded RevenueTokenClaimed event from a royalty vault.
type RevenueClaim struct {
	Claimer     common.Address
	Token       common.Address
	Amount      *big.Int
	BlockNumber uint64
	TxHash      common.Hash
}

type Client struct {
	client           *ethclient.Client
	chainID          *big.Int
	royaltyModule    common.Address
	royaltyWorkflows common.Address
	moduleABI        abi.ABI
	vaultABI         abi.ABI
	workflowsABI     abi.ABI
	signerKey        *ecdsa.PrivateKey
}

func NewClient(cfg *config.Config) (*Client, error) {
	rpcURL := strings.TrimSpace(cfg.Story.RPCURL)
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Story RPC: %w", err)
	}

	moduleABI, err := abi.JSON(strings.NewReader(royaltyModuleABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RoyaltyModule ABI: %w", err)
	}
	vaultABI, err := abi.JSON(strings.NewReader(royaltyVaultABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RoyaltyVault ABI: %w", err)
	}
	workflowsABI, err := abi.JSON(strings.NewReader(royaltyWorkflowsABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RoyaltyWorkflows ABI: %w", err)
	}

	c := &Client{
		client:           client,
		chainID:          big.NewInt(cfg.Story.ChainID),
		royaltyModule:    common.HexToAddress(cfg.Story.RoyaltyModuleAddr),
		royaltyWorkflows: common.HexToAddress(cfg.Story.RoyaltyWorkflowsAddr),
		moduleABI:        moduleABI,
		vaultABI:         vaultABI,
		workflowsABI:     workflowsABI,
	}

	if cfg.Story.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Story.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse STORY_PRIVATE_KEY: %w", err)
		}
		c.signerKey = key
		logger.Info("Story client signing enabled for %s", crypto.PubkeyToAddress(key.PublicKey).Hex())
	}

	return c, nil
}

// CanSign reports whether a server-side signing key is configured.
func (c *Client) CanSign() bool {
	return c.signerKey != nil
}

// BlockNumber returns the current head block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.client.BlockNumber(ctx)
}

// GetRoyaltyVaultAddress resolves the royalty vault deployed for an IP
// asset via the RoyaltyModule. An IP with no vault yet resolves to the zero
// address, which is reported as an error.
func (c *Client) GetRoyaltyVaultAddress(ctx context.Context, ipID common.Address) (common.Address, error) {
	data, err := c.moduleABI.Pack("ipRoyaltyVaults", ipID)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to pack ipRoyaltyVaults call: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.royaltyModule,
		Data: data,
	}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to call RoyaltyModule: %w", err)
	}

	results, err := c.moduleABI.Unpack("ipRoyaltyVaults", result)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to unpack vault address: %w", err)
	}
	if len(results) == 0 {
		return common.Address{}, fmt.Errorf("no results returned from ipRoyaltyVaults call")
	}

	vault, ok := results[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("failed to decode vault address")
	}
	if vault == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no royalty vault deployed for IP %s", ipID.Hex())
	}

	return vault, nil
}

// FilterRevenueClaims scans a royalty vault for RevenueTokenClaimed events
// from fromBlock to the chain head. Logs that fail to decode are skipped.
func (c *Client) FilterRevenueClaims(ctx context.Context, vault common.Address, fromBlock uint64) ([]RevenueClaim, error) {
	eventID := c.vaultABI.Events["RevenueTokenClaimed"].ID

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{vault},
		Topics:    [][]common.Hash{{eventID}},
	}

	logs, err := c.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vault logs: %w", err)
	}

	claims := make([]RevenueClaim, 0, len(logs))
	for _, log := range logs {
		// All three fields are non-indexed, so everything is in the data blob
		values, err := c.vaultABI.Unpack("RevenueTokenClaimed", log.Data)
		if err != nil {
			logger.Error("Failed to decode RevenueTokenClaimed log in tx %s: %v", log.TxHash.Hex(), err)
			continue
		}
		if len(values) != 3 {
			continue
		}

		claimer, ok1 := values[0].(common.Address)
		token, ok2 := values[1].(common.Address)
		amount, ok3 := values[2].(*big.Int)
		if !ok1 || !ok2 || !ok3 {
			continue
		}

		claims = append(claims, RevenueClaim{
			Claimer:     claimer,
			Token:       token,
			Amount:      amount,
			BlockNumber: log.BlockNumber,
			TxHash:      log.TxHash,
		})
	}

	return claims, nil
}

// BlockTime returns the timestamp of a block.
func (c *Client) BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := c.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch block header %d: %w", blockNumber, err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// ClaimAllRevenue submits a claimAllRevenue transaction on the
// RoyaltyWorkflows contract using the configured server signing key.
// Returns the transaction hash.
func (c *Client) ClaimAllRevenue(ctx context.Context, ancestorIP, claimer common.Address, childIPs, royaltyPolicies, currencyTokens []common.Address) (string, error) {
	if c.signerKey == nil {
		return "", fmt.Errorf("no signing key configured")
	}

	if len(currencyTokens) == 0 {
		currencyTokens = []common.Address{common.HexToAddress(WIPTokenAddress)}
	}
	if childIPs == nil {
		childIPs = []common.Address{}
	}
	if royaltyPolicies == nil {
		royaltyPolicies = []common.Address{}
	}

	data, err := c.workflowsABI.Pack("claimAllRevenue", ancestorIP, claimer, childIPs, royaltyPolicies, currencyTokens)
	if err != nil {
		return "", fmt.Errorf("failed to pack claimAllRevenue call: %w", err)
	}

	from := crypto.PubkeyToAddress(c.signerKey.PublicKey)

	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas price: %w", err)
	}

	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &c.royaltyWorkflows,
		Data: data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.royaltyWorkflows,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.signerKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	logger.Info("Submitted claimAllRevenue for IP %s: %s", ancestorIP.Hex(), signedTx.Hash().Hex())
	return signedTx.Hash().Hex(), nil
}
