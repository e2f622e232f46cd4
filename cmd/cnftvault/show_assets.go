package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mohtashimnawaz/fractionalization/das"
)

var showAssetsCmd = &cobra.Command{
	Use:   "show-assets <owner-address>",
	Short: "List an owner's compressed assets from the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		endpoint := cfg.IndexEndpoint()
		if endpoint == "" {
			endpoint = cfg.PublicIndexEndpoint()
		}
		if endpoint == "" {
			return errors.New("HELIUS_API_KEY or PUBLIC_HELIUS_API_KEY must be set")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		owner := args[0]
		assets, err := das.New(endpoint, das.WithLogger(log)).ListAssetsByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			fmt.Printf("no compressed assets indexed for %s on %s\n", owner, cfg.Network)
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Symbol", "Asset ID", "Tree", "Leaf"})
		for _, a := range assets {
			table.Append([]string{
				a.DisplayName(),
				a.Symbol,
				a.ID,
				a.Compression.Tree,
				fmt.Sprintf("%d", a.Compression.LeafIndex),
			})
		}
		table.Render()

		color.Green("%d compressed asset(s) held by %s on %s", len(assets), owner, cfg.Network)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showAssetsCmd)
}
