/**
 * @description
 * HTTP Client for the Pinata IPFS pinning service.
 * Pins JSON metadata blobs and builds public gateway URLs for stored CIDs.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/deepshare-project/backend/internal/config"
)

const (
	DefaultTimeout = 30 * time.Second

	// Pinata pinning endpoint for JSON content
	DefaultPinJSONURL = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
)

// ErrMissingCredential is returned when no Pinata JWT is configured.
var ErrMissingCredential = errors.New("PINATA_JWT is not configured")

type Client struct {
	PinJSONURL  string
	GatewayBase string
	JWT         string
	HTTPClient  *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		PinJSONURL:  DefaultPinJSONURL,
		GatewayBase: cfg.IPFS.GatewayURL,
		JWT:         cfg.IPFS.PinataJWT,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// pinJSONRequest mirrors Pinata's pinJSONToIPFS body
type pinJSONRequest struct {
	PinataOptions  pinataOptions  `json:"pinataOptions"`
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
	PinataContent  interface{}    `json:"pinataContent"`
}

type pinataOptions struct {
	CIDVersion int `json:"cidVersion"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinJSONResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinJSON pins arbitrary JSON content and returns its CID.
func (c *Client) PinJSON(ctx context.Context, name string, content interface{}) (string, error) {
	if c.JWT == "" {
		return "", ErrMissingCredential
	}

	body, err := json.Marshal(pinJSONRequest{
		PinataOptions:  pinataOptions{CIDVersion: 0},
		PinataMetadata: pinataMetadata{Name: name},
		PinataContent:  content,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.PinJSONURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.JWT)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("failed to upload to IPFS: status %d: %s", resp.StatusCode, string(detail))
	}

	var pinResp pinJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinResp); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if pinResp.IpfsHash == "" {
		return "", errors.New("pin response contained no CID")
	}

	return pinResp.IpfsHash, nil
}

// GatewayURL builds a public gateway URL for a CID. Empty CIDs yield an
// empty string so callers can pass optional columns through unchecked.
func (c *Client) GatewayURL(cid string) string {
	if cid == "" {
		return ""
	}
	return c.GatewayBase + cid
}
