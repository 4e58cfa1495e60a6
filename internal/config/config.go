/**
 * @description
 * Configuration loader for the DeepShare backend.
 * Reads environment variables, applies defaults, and validates the critical
 * ones before the server starts.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Fails fast if DATABASE_URL is missing.
 * - PINATA_JWT and STORY_PRIVATE_KEY are optional at startup; the routes that
 *   need them report their absence at request time instead.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	IPFS   IPFSConfig
	Story  StoryConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development" or "production"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// IPFSConfig holds Pinata pinning and gateway settings
type IPFSConfig struct {
	PinataJWT  string
	GatewayURL string // public gateway base, trailing slash included
}

// StoryConfig holds Story Protocol chain settings
type StoryConfig struct {
	RPCURL               string
	ChainID              int64
	RoyaltyModuleAddr    string
	RoyaltyWorkflowsAddr string
	PrivateKey           string // optional, enables server-side revenue claims
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (prod injects env vars directly)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		IPFS: IPFSConfig{
			PinataJWT:  sanitizeCredential(getEnv("PINATA_JWT", "")),
			GatewayURL: getEnv("PINATA_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs/"),
		},
		Story: StoryConfig{
			RPCURL:               getEnv("STORY_RPC_URL", "https://aeneid.storyrpc.io"),
			ChainID:              int64(getEnvAsInt("STORY_CHAIN_ID", 1315)),
			RoyaltyModuleAddr:    getEnv("ROYALTY_MODULE_ADDRESS", "0xD2f60c40fEbccf6311f8B47c4f2Ec6b040400086"),
			RoyaltyWorkflowsAddr: getEnv("ROYALTY_WORKFLOWS_ADDRESS", "0x9515faE61E0c0447C6AC6dEe5628A2097aFE1890"),
			PrivateKey:           sanitizeCredential(getEnv("STORY_PRIVATE_KEY", "")),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.IPFS.PinataJWT == "" && cfg.Server.Env != "test" {
		fmt.Println("Warning: PINATA_JWT is missing. IPFS upload route will fail.")
	}
	if !strings.HasSuffix(cfg.IPFS.GatewayURL, "/") {
		cfg.IPFS.GatewayURL += "/"
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
