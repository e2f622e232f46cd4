package txbuild

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// On-chain programs involved in compressed-NFT minting.
var (
	BubblegumProgramID   = solana.MustPublicKeyFromBase58("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")
	CompressionProgramID = solana.MustPublicKeyFromBase58("cmtDvXumGCrqC1Age74AVPhSRVXJMd8PJS91L8KbNCK")
	NoopProgramID        = solana.MustPublicKeyFromBase58("noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV")
)

const (
	// SellerFeeBasisPoints is the royalty the mint instruction records (5%).
	SellerFeeBasisPoints uint16 = 500

	tokenStandardNonFungible     uint8 = 0
	tokenProgramVersionOriginal  uint8 = 0
	concurrentTreeHeaderSizeV1         = 2 + 54
	concurrentTreeFixedFieldSize       = 8 + 8 + 8 // sequence number, active index, buffer size
)

type (
	// MetadataArgs is the Borsh-encoded argument block of the mint
	// instruction. Field order is the program's wire layout; do not reorder.
	MetadataArgs struct {
		Name                 string
		Symbol               string
		URI                  string
		SellerFeeBasisPoints uint16
		PrimarySaleHappened  bool
		IsMutable            bool
		EditionNonce         *uint8      `bin:"optional"`
		TokenStandard        *uint8      `bin:"optional"`
		Collection           *Collection `bin:"optional"`
		Uses                 *Uses       `bin:"optional"`
		TokenProgramVersion  uint8
		Creators             []Creator
	}

	Creator struct {
		Address  solana.PublicKey
		Verified bool
		Share    uint8
	}

	Collection struct {
		Verified bool
		Key      solana.PublicKey
	}

	Uses struct {
		UseMethod uint8
		Remaining uint64
		Total     uint64
	}

	createTreeArgs struct {
		MaxDepth      uint32
		MaxBufferSize uint32
		Public        *bool `bin:"optional"`
	}
)

// anchorDiscriminator derives the 8-byte instruction tag for an Anchor
// program method.
func anchorDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + name))
	return sum[:8]
}

// TreeAuthority derives the tree's authority account owned by the
// Bubblegum program.
func TreeAuthority(merkleTree solana.PublicKey) (solana.PublicKey, error) {
	authority, _, err := solana.FindProgramAddress([][]byte{merkleTree.Bytes()}, BubblegumProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("deriving tree authority for %s: %w", merkleTree, err)
	}
	return authority, nil
}

// defaultMetadata mirrors the metadata block the wizard mints with: the
// owner as sole unverified creator, no collection, no uses.
func defaultMetadata(owner solana.PublicKey, name, symbol, uri string) MetadataArgs {
	tokenStandard := tokenStandardNonFungible
	return MetadataArgs{
		Name:                 name,
		Symbol:               symbol,
		URI:                  uri,
		SellerFeeBasisPoints: SellerFeeBasisPoints,
		PrimarySaleHappened:  false,
		IsMutable:            true,
		TokenStandard:        &tokenStandard,
		TokenProgramVersion:  tokenProgramVersionOriginal,
		Creators: []Creator{
			{Address: owner, Verified: false, Share: 100},
		},
	}
}

// mintInstruction assembles the Bubblegum mint instruction for one leaf.
// The owner is leaf owner, leaf delegate, payer and tree delegate at once;
// this is the user-pays mode against a public tree.
func mintInstruction(owner, merkleTree solana.PublicKey, metadata MetadataArgs) (solana.Instruction, error) {
	treeAuthority, err := TreeAuthority(merkleTree)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstructionData("mint_v1", metadata)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(treeAuthority, true, false),
		solana.NewAccountMeta(owner, false, false), // leaf owner
		solana.NewAccountMeta(owner, false, false), // leaf delegate
		solana.NewAccountMeta(merkleTree, true, false),
		solana.NewAccountMeta(owner, true, true), // payer
		solana.NewAccountMeta(owner, false, true), // tree delegate
		solana.NewAccountMeta(NoopProgramID, false, false),
		solana.NewAccountMeta(CompressionProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(BubblegumProgramID, accounts, data), nil
}

// createTreeInstruction assembles the Bubblegum tree-creation instruction.
// The tree is made public so any wallet can mint into it and pay the fee.
func createTreeInstruction(payer, merkleTree solana.PublicKey, maxDepth, maxBufferSize uint32) (solana.Instruction, error) {
	treeAuthority, err := TreeAuthority(merkleTree)
	if err != nil {
		return nil, err
	}

	public := true
	data, err := encodeInstructionData("create_tree", createTreeArgs{
		MaxDepth:      maxDepth,
		MaxBufferSize: maxBufferSize,
		Public:        &public,
	})
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(treeAuthority, true, false),
		solana.NewAccountMeta(merkleTree, true, false),
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(payer, false, true), // tree creator
		solana.NewAccountMeta(NoopProgramID, false, false),
		solana.NewAccountMeta(CompressionProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(BubblegumProgramID, accounts, data), nil
}

func encodeInstructionData(method string, args any) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, anchorDiscriminator(method)...)
	encoded, err := borshEncode(args)
	if err != nil {
		return nil, fmt.Errorf("encoding %s args: %w", method, err)
	}
	return append(buf, encoded...), nil
}

func borshEncode(v any) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TreeAccountSize returns the byte size of a concurrent-merkle-tree account
// for the given parameters. Depth 14 with buffer 64 and no canopy comes out
// at 31800 bytes.
func TreeAccountSize(maxDepth, maxBufferSize, canopyDepth uint32) uint64 {
	changeLogSize := uint64(maxBufferSize) * uint64(32+32*maxDepth+4+4)
	rightmostPathSize := uint64(32*maxDepth + 32 + 4 + 4)
	canopySize := uint64(0)
	if canopyDepth > 0 {
		canopySize = ((1 << (canopyDepth + 1)) - 2) * 32
	}
	return concurrentTreeHeaderSizeV1 + concurrentTreeFixedFieldSize +
		changeLogSize + rightmostPathSize + canopySize
}
