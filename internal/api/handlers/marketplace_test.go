package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deepshare-project/backend/internal/models"
	"github.com/deepshare-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type fakeMarketplaceReader struct {
	assets []services.MarketplaceAsset
	err    error
}

func (f *fakeMarketplaceReader) GetAllMarketplaceAssets(ctx context.Context) ([]services.MarketplaceAsset, error) {
	return f.assets, f.err
}

func newMarketplaceApp(reader *fakeMarketplaceReader) *fiber.App {
	app := fiber.New()
	handler := NewMarketplaceHandler(reader)
	app.Get("/api/marketplace/assets", handler.GetAssets)
	return app
}

func TestMarketplaceGetAssets(t *testing.T) {
	reader := &fakeMarketplaceReader{
		assets: []services.MarketplaceAsset{
			{Image: models.Image{ID: 1, WalletAddress: "0xdef"}, Device: &models.Device{ID: 10}},
			{Image: models.Image{ID: 2, WalletAddress: "0xorphan"}},
		},
	}
	app := newMarketplaceApp(reader)

	resp := getPath(t, app, "/api/marketplace/assets")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data, ok := body["data"].([]interface{})
	if !ok || len(data) != 2 {
		t.Fatalf("expected two assets, got %v", body["data"])
	}

	// Unmatched images serialize with an explicit null device
	orphan, ok := data[1].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected asset shape: %v", data[1])
	}
	if device, present := orphan["device"]; !present || device != nil {
		t.Errorf("expected device:null for unmatched image, got %v", device)
	}
}

func TestMarketplaceGetAssets_StoreError(t *testing.T) {
	app := newMarketplaceApp(&fakeMarketplaceReader{err: errors.New("db down")})

	resp := getPath(t, app, "/api/marketplace/assets")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
