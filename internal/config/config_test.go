package config

import "testing"

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GO_ENV", "test")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/deepshare")
	t.Setenv("GO_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Redis.URL != "redis://localhost:6379" {
		t.Errorf("unexpected redis default: %s", cfg.Redis.URL)
	}
	if cfg.Story.RPCURL != "https://aeneid.storyrpc.io" {
		t.Errorf("unexpected story RPC default: %s", cfg.Story.RPCURL)
	}
	if cfg.Story.ChainID != 1315 {
		t.Errorf("unexpected chain id default: %d", cfg.Story.ChainID)
	}
	if cfg.IPFS.GatewayURL != "https://gateway.pinata.cloud/ipfs/" {
		t.Errorf("unexpected gateway default: %s", cfg.IPFS.GatewayURL)
	}
}

func TestLoad_GatewayTrailingSlash(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/deepshare")
	t.Setenv("GO_ENV", "test")
	t.Setenv("PINATA_GATEWAY_URL", "https://ipfs.example.com/ipfs")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IPFS.GatewayURL != "https://ipfs.example.com/ipfs/" {
		t.Errorf("expected normalized trailing slash, got %s", cfg.IPFS.GatewayURL)
	}
}
