package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mohtashimnawaz/fractionalization/config"
	"github.com/mohtashimnawaz/fractionalization/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cnftvault",
	Short: "Compressed NFT fractionalization service and tooling",
	Long: `cnftvault serves the fractionalization HTTP API and ships the
operational tooling around it: provisioning storage trees and inspecting
indexed holdings. Configuration comes from the environment (HELIUS_API_KEY,
SOLANA_NETWORK, LISTEN_ADDR, MERKLE_TREE_ADDRESS).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// setup loads the environment configuration and builds the logger shared by
// every subcommand.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(logLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
