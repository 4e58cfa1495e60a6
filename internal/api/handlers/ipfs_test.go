package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/deepshare-project/backend/internal/ipfs"
	"github.com/gofiber/fiber/v2"
)

type fakePinner struct {
	cid  string
	err  error
	name string
}

func (f *fakePinner) PinJSON(ctx context.Context, name string, content interface{}) (string, error) {
	f.name = name
	if f.err != nil {
		return "", f.err
	}
	return f.cid, nil
}

func newIPFSApp(pinner *fakePinner) *fiber.App {
	app := fiber.New()
	handler := NewIPFSHandler(pinner)
	app.Post("/api/ipfs/upload", handler.Upload)
	return app
}

func TestUpload_MissingMetadata(t *testing.T) {
	app := newIPFSApp(&fakePinner{cid: "QmX"})

	resp := postJSON(t, app, "/api/ipfs/upload", map[string]interface{}{"type": "json"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpload_UnsupportedType(t *testing.T) {
	app := newIPFSApp(&fakePinner{cid: "QmX"})

	resp := postJSON(t, app, "/api/ipfs/upload", map[string]interface{}{
		"metadata": map[string]string{"name": "asset"},
		"type":     "file",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpload_Success(t *testing.T) {
	pinner := &fakePinner{cid: "QmSuccess"}
	app := newIPFSApp(pinner)

	resp := postJSON(t, app, "/api/ipfs/upload", map[string]interface{}{
		"metadata": map[string]string{"name": "asset"},
		"type":     "json",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["cid"] != "QmSuccess" {
		t.Errorf("expected cid QmSuccess, got %v", body["cid"])
	}
	if pinner.name == "" {
		t.Error("expected a generated pin name")
	}
}

func TestUpload_MissingCredential(t *testing.T) {
	app := newIPFSApp(&fakePinner{err: ipfs.ErrMissingCredential})

	resp := postJSON(t, app, "/api/ipfs/upload", map[string]interface{}{
		"metadata": map[string]string{"name": "asset"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
