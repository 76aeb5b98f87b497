package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	// Server configuration
	ServerAddr string
	LogLevel   string

	// Solana configuration
	SolanaNetwork       string // "mainnet" or "devnet"
	SolanaMainnetRPCURL string
	SolanaDevnetRPCURL  string

	// NATS configuration (optional; empty disables event publishing)
	NATSURL string

	// Action metadata served on GET
	ActionTitle       string
	ActionDescription string
	ActionLabel       string
	ActionIconURL     string

	// RequestTimeout is the wall-clock ceiling for a single request,
	// enforced by the HTTP server, not by the pipeline.
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables and validates all required fields.
// Returns an error if any required configuration is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Server configuration
	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", ":8080")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Solana configuration
	cfg.SolanaNetwork = getEnvOrDefault("SOLANA_NETWORK", "devnet")
	cfg.SolanaMainnetRPCURL = os.Getenv("SOLANA_MAINNET_RPC_URL")
	cfg.SolanaDevnetRPCURL = os.Getenv("SOLANA_DEVNET_RPC_URL")

	// NATS configuration
	cfg.NATSURL = os.Getenv("NATS_URL")

	// Action metadata
	cfg.ActionTitle = getEnvOrDefault("ACTION_TITLE", "Send SOL")
	cfg.ActionDescription = getEnvOrDefault("ACTION_DESCRIPTION", "Transfer SOL to another Solana wallet")
	cfg.ActionLabel = getEnvOrDefault("ACTION_LABEL", "Send")
	cfg.ActionIconURL = os.Getenv("ACTION_ICON_URL")

	// Request timeout
	timeout, err := parseDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.RequestTimeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.SolanaNetwork != "mainnet" && c.SolanaNetwork != "devnet" {
		errs = append(errs, fmt.Errorf("SOLANA_NETWORK must be 'mainnet' or 'devnet', got %q", c.SolanaNetwork))
	}

	// The RPC URL for the selected network is required.
	switch c.SolanaNetwork {
	case "mainnet":
		if c.SolanaMainnetRPCURL == "" {
			errs = append(errs, fmt.Errorf("SOLANA_MAINNET_RPC_URL is required when SOLANA_NETWORK=mainnet"))
		}
	case "devnet":
		if c.SolanaDevnetRPCURL == "" {
			errs = append(errs, fmt.Errorf("SOLANA_DEVNET_RPC_URL is required when SOLANA_NETWORK=devnet"))
		}
	}

	if c.SolanaMainnetRPCURL != "" && c.SolanaMainnetRPCURL == c.SolanaDevnetRPCURL {
		errs = append(errs, fmt.Errorf("SOLANA_MAINNET_RPC_URL and SOLANA_DEVNET_RPC_URL must be different"))
	}

	if c.ActionTitle == "" {
		errs = append(errs, fmt.Errorf("ActionTitle is required"))
	}

	if c.ActionLabel == "" {
		errs = append(errs, fmt.Errorf("ActionLabel is required"))
	}

	if c.RequestTimeout < time.Second {
		errs = append(errs, fmt.Errorf("RequestTimeout must be at least 1 second"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%v", errs)
	}

	return nil
}

// RPCURL returns the Solana RPC endpoint for the configured network.
func (c *Config) RPCURL() string {
	if c.SolanaNetwork == "mainnet" {
		return c.SolanaMainnetRPCURL
	}
	return c.SolanaDevnetRPCURL
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}
