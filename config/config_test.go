package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, DefaultListenAddr, cfg.ListenAddr)
		require.Equal(t, "devnet", cfg.Network)
		require.False(t, cfg.UserPaysMint())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SOLANA_NETWORK", "testnet")
		t.Setenv("HELIUS_API_KEY", "secret-key")
		t.Setenv("MERKLE_TREE_ADDRESS", "tree-address")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "testnet", cfg.Network)
		require.True(t, cfg.UserPaysMint())
		require.Equal(t, "https://testnet.helius-rpc.com/?api-key=secret-key", cfg.IndexEndpoint())
	})

	t.Run("unknown network rejected", func(t *testing.T) {
		t.Setenv("SOLANA_NETWORK", "moonbase")
		_, err := Load()
		require.ErrorContains(t, err, "unknown network")
	})
}

func TestEndpoints(t *testing.T) {
	t.Run("no key degrades to public cluster RPC", func(t *testing.T) {
		cfg := &Config{Network: "devnet"}
		require.Empty(t, cfg.IndexEndpoint())
		require.Empty(t, cfg.PublicIndexEndpoint())
		require.Equal(t, "https://api.devnet.solana.com", cfg.RPCEndpoint())
	})

	t.Run("public key preferred for reads", func(t *testing.T) {
		cfg := &Config{Network: "devnet", IndexAPIKey: "secret", PublicIndexAPIKey: "public"}
		require.Equal(t, "https://devnet.helius-rpc.com/?api-key=public", cfg.PublicIndexEndpoint())
		require.Equal(t, "https://devnet.helius-rpc.com/?api-key=secret", cfg.IndexEndpoint())
	})

	t.Run("server key backs reads when only it exists", func(t *testing.T) {
		cfg := &Config{Network: "devnet", IndexAPIKey: "secret"}
		require.Equal(t, "https://devnet.helius-rpc.com/?api-key=secret", cfg.PublicIndexEndpoint())
	})

	t.Run("explorer links carry the cluster", func(t *testing.T) {
		devnet := &Config{Network: "devnet"}
		require.Equal(t, "https://explorer.solana.com/address/abc?cluster=devnet", devnet.ExplorerURL("abc"))
		mainnet := &Config{Network: "mainnet"}
		require.Equal(t, "https://explorer.solana.com/address/abc", mainnet.ExplorerURL("abc"))
	})
}
