package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServerAddr:         ":8080",
		LogLevel:           "info",
		SolanaNetwork:      "devnet",
		SolanaDevnetRPCURL: "https://api.devnet.solana.com",
		ActionTitle:        "Send SOL",
		ActionDescription:  "Transfer SOL to another Solana wallet",
		ActionLabel:        "Send",
		RequestTimeout:     30 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid devnet config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid mainnet config",
			mutate: func(c *Config) {
				c.SolanaNetwork = "mainnet"
				c.SolanaMainnetRPCURL = "https://api.mainnet-beta.solana.com"
			},
		},
		{
			name:    "unknown network",
			mutate:  func(c *Config) { c.SolanaNetwork = "testnet" },
			wantErr: "SOLANA_NETWORK",
		},
		{
			name: "mainnet selected without mainnet url",
			mutate: func(c *Config) {
				c.SolanaNetwork = "mainnet"
				c.SolanaMainnetRPCURL = ""
			},
			wantErr: "SOLANA_MAINNET_RPC_URL",
		},
		{
			name:    "devnet selected without devnet url",
			mutate:  func(c *Config) { c.SolanaDevnetRPCURL = "" },
			wantErr: "SOLANA_DEVNET_RPC_URL",
		},
		{
			name: "mainnet and devnet urls identical",
			mutate: func(c *Config) {
				c.SolanaMainnetRPCURL = c.SolanaDevnetRPCURL
			},
			wantErr: "must be different",
		},
		{
			name:    "missing title",
			mutate:  func(c *Config) { c.ActionTitle = "" },
			wantErr: "ActionTitle",
		},
		{
			name:    "missing label",
			mutate:  func(c *Config) { c.ActionLabel = "" },
			wantErr: "ActionLabel",
		},
		{
			name:    "sub-second request timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 100 * time.Millisecond },
			wantErr: "RequestTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SOLANA_DEVNET_RPC_URL", "https://api.devnet.solana.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "devnet", cfg.SolanaNetwork)
	assert.Equal(t, "Send SOL", cfg.ActionTitle)
	assert.Equal(t, "Transfer SOL to another Solana wallet", cfg.ActionDescription)
	assert.Equal(t, "Send", cfg.ActionLabel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("SOLANA_NETWORK", "mainnet")
	t.Setenv("SOLANA_MAINNET_RPC_URL", "https://rpc.example.com")
	t.Setenv("ACTION_TITLE", "Tip the band")
	t.Setenv("REQUEST_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "mainnet", cfg.SolanaNetwork)
	assert.Equal(t, "Tip the band", cfg.ActionTitle)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("SOLANA_DEVNET_RPC_URL", "https://api.devnet.solana.com")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestLoad_MissingRPCURL(t *testing.T) {
	t.Setenv("SOLANA_NETWORK", "devnet")
	t.Setenv("SOLANA_DEVNET_RPC_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestRPCURL(t *testing.T) {
	cfg := validConfig()
	cfg.SolanaMainnetRPCURL = "https://rpc.mainnet.example.com"

	assert.Equal(t, cfg.SolanaDevnetRPCURL, cfg.RPCURL())

	cfg.SolanaNetwork = "mainnet"
	assert.Equal(t, "https://rpc.mainnet.example.com", cfg.RPCURL())
}
