/*
Package txbuild constructs unsigned transactions for compressed-NFT
operations.

The builder never holds a signing key: the owner's wallet is both fee payer
and signer, and the output is a fully-formed transaction with empty
signature slots, serialized for client-side signing. Given identical inputs
and the same recent blockhash the output bytes are identical.
*/
package txbuild

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRequest - missing or empty caller input. Maps to a 400 at
	// the HTTP boundary; nothing was attempted, safe to retry immediately.
	ErrInvalidRequest = errors.New("invalid build request")

	// ErrBuildFailed - instruction construction or blockhash lookup failed.
	// No partial transaction is ever returned behind this error.
	ErrBuildFailed = errors.New("transaction build failed")
)

type (
	// ChainInfo is the single network read the builder performs. Satisfied
	// by rpc.Client.
	ChainInfo interface {
		GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	}

	// RentInfo is the extra read tree creation needs. Satisfied by rpc.Client.
	RentInfo interface {
		GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error)
	}

	Builder struct {
		chain ChainInfo
		log   *zap.Logger
	}

	// MintRequest is the input of BuildMint. All five fields are required.
	MintRequest struct {
		Owner       string `json:"owner"`
		TreeAddress string `json:"treeAddress"`
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		URI         string `json:"uri"`
	}

	// BuildResult carries the unsigned transaction and the block reference
	// the client needs to know how long it stays submittable.
	BuildResult struct {
		SerializedTx         string `json:"serializedTx"`
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		FeePayer             string `json:"feePayer"`
	}

	// CreateTreeResult carries the unsigned tree-creation transaction. The
	// tree account itself must co-sign before submission.
	CreateTreeResult struct {
		Tx                   *solana.Transaction
		TreeAddress          solana.PublicKey
		LastValidBlockHeight uint64
		AccountSize          uint64
		RentLamports         uint64
	}
)

func New(chain ChainInfo, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{chain: chain, log: log.Named("txbuild")}
}

func (r *MintRequest) validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"owner", r.Owner},
		{"treeAddress", r.TreeAddress},
		{"name", r.Name},
		{"symbol", r.Symbol},
		{"uri", r.URI},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}

// BuildMint produces the unsigned mint transaction for the given tree. The
// construction is balance-independent; only submission can fail on funds.
func (b *Builder) BuildMint(ctx context.Context, req MintRequest) (*BuildResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	owner, err := solana.PublicKeyFromBase58(req.Owner)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing owner address: %v", ErrBuildFailed, err)
	}
	merkleTree, err := solana.PublicKeyFromBase58(req.TreeAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing tree address: %v", ErrBuildFailed, err)
	}

	ix, err := mintInstruction(owner, merkleTree, defaultMetadata(owner, req.Name, req.Symbol, req.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	block, err := b.chain.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching block reference: %v", ErrBuildFailed, err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		block.Value.Blockhash,
		solana.TransactionPayer(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	// Zero-filled signature slots so the wire form round-trips byte-exact
	// through the wallet before signing.
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: serializing transaction: %v", ErrBuildFailed, err)
	}

	b.log.Info("built mint transaction",
		zap.String("owner", req.Owner),
		zap.String("tree", req.TreeAddress),
		zap.String("name", req.Name),
		zap.Uint64("lastValidBlockHeight", block.Value.LastValidBlockHeight))

	return &BuildResult{
		SerializedTx:         base64.StdEncoding.EncodeToString(raw),
		Blockhash:            block.Value.Blockhash.String(),
		LastValidBlockHeight: block.Value.LastValidBlockHeight,
		FeePayer:             owner.String(),
	}, nil
}

// BuildCreateTree produces the unsigned transaction that allocates and
// initializes a public storage tree. Used by the create-tree tooling, not
// the HTTP boundary.
func (b *Builder) BuildCreateTree(ctx context.Context, rent RentInfo, payer, merkleTree solana.PublicKey, maxDepth, maxBufferSize, canopyDepth uint32) (*CreateTreeResult, error) {
	if payer.IsZero() || merkleTree.IsZero() {
		return nil, fmt.Errorf("%w: payer and tree addresses are required", ErrInvalidRequest)
	}

	size := TreeAccountSize(maxDepth, maxBufferSize, canopyDepth)
	lamports, err := rent.GetMinimumBalanceForRentExemption(ctx, size, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching rent exemption: %v", ErrBuildFailed, err)
	}

	allocIx := system.NewCreateAccountInstruction(
		lamports,
		size,
		CompressionProgramID,
		payer,
		merkleTree,
	).Build()

	treeIx, err := createTreeInstruction(payer, merkleTree, maxDepth, maxBufferSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	block, err := b.chain.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching block reference: %v", ErrBuildFailed, err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{allocIx, treeIx},
		block.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	b.log.Info("built create-tree transaction",
		zap.Stringer("tree", merkleTree),
		zap.Uint32("maxDepth", maxDepth),
		zap.Uint32("maxBufferSize", maxBufferSize),
		zap.Uint64("accountSize", size),
		zap.Uint64("rentLamports", lamports))

	return &CreateTreeResult{
		Tx:                   tx,
		TreeAddress:          merkleTree,
		LastValidBlockHeight: block.Value.LastValidBlockHeight,
		AccountSize:          size,
		RentLamports:         lamports,
	}, nil
}
