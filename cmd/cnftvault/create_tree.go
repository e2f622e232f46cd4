package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mohtashimnawaz/fractionalization/confirm"
	"github.com/mohtashimnawaz/fractionalization/txbuild"
	"github.com/mohtashimnawaz/fractionalization/wallet"
)

// feeMarginLamports covers the transaction fee on top of the tree rent.
const feeMarginLamports = 10_000_000

var (
	treeDepth  uint32
	treeBuffer uint32
	treeCanopy uint32
	keygenPath string
)

var createTreeCmd = &cobra.Command{
	Use:   "create-tree",
	Short: "Provision a public storage tree for compressed mints",
	Long: `create-tree allocates a concurrent merkle tree account, initializes
it through the compression program and prints the address to put in
MERKLE_TREE_ADDRESS. The payer keypair funds the rent and co-signs next to
the freshly generated tree keypair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		payer, err := wallet.LoadLocal(keygenPath)
		if err != nil {
			return fmt.Errorf("loading payer keypair: %w", err)
		}

		chain := rpc.New(cfg.RPCEndpoint())
		builder := txbuild.New(chain, log)
		treeKeypair := solana.NewWallet()

		res, err := builder.BuildCreateTree(ctx, chain, payer.Address(), treeKeypair.PublicKey(), treeDepth, treeBuffer, treeCanopy)
		if err != nil {
			return err
		}

		balance, err := chain.GetBalance(ctx, payer.Address(), rpc.CommitmentConfirmed)
		if err != nil {
			return fmt.Errorf("reading payer balance: %w", err)
		}
		needed := res.RentLamports + feeMarginLamports
		if balance.Value < needed {
			return fmt.Errorf("payer %s holds %.4f SOL, the tree needs at least %.4f SOL",
				payer.Address(), sol(balance.Value), sol(needed))
		}

		fmt.Printf("payer:        %s (%.4f SOL)\n", payer.Address(), sol(balance.Value))
		fmt.Printf("tree account: %s (%d bytes, rent %.4f SOL)\n",
			res.TreeAddress, res.AccountSize, sol(res.RentLamports))
		fmt.Printf("parameters:   depth=%d buffer=%d canopy=%d\n", treeDepth, treeBuffer, treeCanopy)

		if _, err := res.Tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(treeKeypair.PublicKey()) {
				return &treeKeypair.PrivateKey
			}
			return nil
		}); err != nil {
			return fmt.Errorf("signing with tree keypair: %w", err)
		}
		if err := payer.SignTransaction(res.Tx); err != nil {
			return fmt.Errorf("signing with payer keypair: %w", err)
		}

		raw, err := res.Tx.MarshalBinary()
		if err != nil {
			return fmt.Errorf("serializing transaction: %w", err)
		}

		log.Info("submitting create-tree transaction", zap.Stringer("tree", res.TreeAddress))
		receipt, err := confirm.New(chain, log).Submit(ctx, raw)
		if err != nil {
			return err
		}

		color.Green("tree created")
		fmt.Printf("signature: %s\n", receipt.Signature)
		fmt.Printf("explorer:  %s\n", cfg.ExplorerURL(res.TreeAddress.String()))
		fmt.Println()
		fmt.Println("add this to the service environment:")
		color.Cyan("MERKLE_TREE_ADDRESS=%s", res.TreeAddress)
		return nil
	},
}

func sol(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}

func init() {
	createTreeCmd.Flags().Uint32Var(&treeDepth, "depth", 14, "max tree depth (capacity 2^depth leaves)")
	createTreeCmd.Flags().Uint32Var(&treeBuffer, "buffer", 64, "max buffer size for concurrent updates")
	createTreeCmd.Flags().Uint32Var(&treeCanopy, "canopy", 0, "canopy depth cached on-chain")
	createTreeCmd.Flags().StringVar(&keygenPath, "keypair", "", "payer keypair file (defaults to the usual solana keygen locations)")
	rootCmd.AddCommand(createTreeCmd)
}
