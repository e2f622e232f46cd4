package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mohtashimnawaz/fractionalization/api"
	"github.com/mohtashimnawaz/fractionalization/confirm"
	"github.com/mohtashimnawaz/fractionalization/das"
	"github.com/mohtashimnawaz/fractionalization/txbuild"
	"github.com/mohtashimnawaz/fractionalization/vault"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fractionalization HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if cfg.IndexAPIKey == "" {
			return errors.New("HELIUS_API_KEY must be set to serve")
		}

		index := das.New(cfg.IndexEndpoint(), das.WithLogger(log))
		chain := rpc.New(cfg.RPCEndpoint())
		builder := txbuild.New(chain, log)
		confirmer := confirm.New(chain, log)
		server := api.NewServer(cfg, index, builder, confirmer, vault.NewRegistry(), log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info("starting service",
			zap.String("network", cfg.Network),
			zap.Bool("userPaysMint", cfg.UserPaysMint()))
		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
