/**
 * @description
 * Wallet address helpers.
 * Addresses are compared and stored in lowercase everywhere; IP identifiers
 * may arrive as a bare address or embedded in an explorer URL.
 *
 * @dependencies
 * - github.com/ethereum/go-ethereum/common: address validation
 */

package services

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var hexAddressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)

// NormalizeAddress lowercases and trims a wallet address for storage and
// comparison. No checksum validation is performed; the address is an opaque
// identity key.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// ExtractIPAddress pulls an on-chain IP identifier out of a stored `ip`
// value. The value is either a bare 0x address or a URL containing one
// (e.g. an explorer link). Returns false when no valid address is found.
func ExtractIPAddress(value string) (common.Address, bool) {
	if value == "" {
		return common.Address{}, false
	}
	if common.IsHexAddress(value) {
		return common.HexToAddress(value), true
	}
	match := hexAddressPattern.FindString(value)
	if match != "" && common.IsHexAddress(match) {
		return common.HexToAddress(match), true
	}
	return common.Address{}, false
}
