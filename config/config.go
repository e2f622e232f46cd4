/*
Package config loads environment-driven configuration.

Two credentials exist: HELIUS_API_KEY is the server-held secret backing
index mutations and must never reach clients; PUBLIC_HELIUS_API_KEY is the
client-visible read key. When no key is configured, RPC access degrades to
the network's public endpoint and index reads are unavailable.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultNetwork    = "devnet"
	DefaultListenAddr = ":8080"
)

type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string

	// Network selects the cluster (devnet, mainnet, testnet).
	Network string

	// IndexAPIKey is the server-only index service credential.
	IndexAPIKey string

	// PublicIndexAPIKey is the client-visible read credential.
	PublicIndexAPIKey string

	// TreeAddress, when set, enables user-pays minting against the
	// pre-provisioned tree. When absent, minting falls back to the index
	// service's mint API (service pays and signs).
	TreeAddress string
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("solana_network", DefaultNetwork)
	v.AutomaticEnv()
	for _, key := range []string{
		"listen_addr",
		"solana_network",
		"helius_api_key",
		"public_helius_api_key",
		"merkle_tree_address",
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	cfg := &Config{
		ListenAddr:        v.GetString("listen_addr"),
		Network:           v.GetString("solana_network"),
		IndexAPIKey:       v.GetString("helius_api_key"),
		PublicIndexAPIKey: v.GetString("public_helius_api_key"),
		TreeAddress:       v.GetString("merkle_tree_address"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Network {
	case "devnet", "testnet", "mainnet":
		return nil
	default:
		return fmt.Errorf("unknown network %q (want devnet, testnet or mainnet)", c.Network)
	}
}

// UserPaysMint reports whether a pre-provisioned tree is configured, which
// toggles between "user pays and signs" and "service pays and signs".
func (c *Config) UserPaysMint() bool {
	return c.TreeAddress != ""
}

// IndexEndpoint is the index-service RPC URL using the server credential.
// Empty when the credential is not configured.
func (c *Config) IndexEndpoint() string {
	if c.IndexAPIKey == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.helius-rpc.com/?api-key=%s", c.Network, c.IndexAPIKey)
}

// PublicIndexEndpoint is the read-side index URL using the public
// credential, degrading to the server credential when only that is set.
func (c *Config) PublicIndexEndpoint() string {
	key := c.PublicIndexAPIKey
	if key == "" {
		key = c.IndexAPIKey
	}
	if key == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.helius-rpc.com/?api-key=%s", c.Network, key)
}

// RPCEndpoint is the plain network RPC URL: the index provider's when a
// key exists, the public cluster endpoint otherwise.
func (c *Config) RPCEndpoint() string {
	if ep := c.PublicIndexEndpoint(); ep != "" {
		return ep
	}
	return fmt.Sprintf("https://api.%s.solana.com", c.Network)
}

// ExplorerURL renders an address link on the cluster explorer.
func (c *Config) ExplorerURL(address string) string {
	if c.Network == "mainnet" {
		return fmt.Sprintf("https://explorer.solana.com/address/%s", address)
	}
	return fmt.Sprintf("https://explorer.solana.com/address/%s?cluster=%s", address, c.Network)
}
