// Package proof holds the Merkle inclusion proof returned by the indexing
// service and its conversion into transaction account references.
//
// A proof is valid only against the tree's current root. Any concurrent
// write to the tree (mint/transfer/burn) makes it stale, so proofs must be
// fetched fresh immediately before use and never cached across a signing
// step.
package proof

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/mohtashimnawaz/fractionalization/base58"
)

// ErrInvalidProofShape indicates a proof whose root, leaf or siblings do not
// decode to 32-byte hashes. Tree depth itself is enforced on-chain, not here.
var ErrInvalidProofShape = errors.New("invalid proof shape")

// AuthenticationProof is the inclusion proof for one leaf of a storage tree.
// Siblings are ordered leaf-to-root, exactly as the indexing service returns
// them; the order is part of the proof and must never be changed.
type AuthenticationProof struct {
	Root      string   `json:"root"`
	Siblings  []string `json:"proof"`
	NodeIndex uint64   `json:"node_index"`
	Leaf      string   `json:"leaf"`
	TreeID    string   `json:"tree_id"`
}

func (p *AuthenticationProof) IsValid() error {
	if p == nil {
		return errors.New("proof is nil")
	}
	if !base58.IsHash(p.Root) {
		return fmt.Errorf("%w: root is not a 32-byte hash", ErrInvalidProofShape)
	}
	if !base58.IsHash(p.Leaf) {
		return fmt.Errorf("%w: leaf is not a 32-byte hash", ErrInvalidProofShape)
	}
	if !base58.IsHash(p.TreeID) {
		return fmt.Errorf("%w: tree id is not a valid address", ErrInvalidProofShape)
	}
	for i, sibling := range p.Siblings {
		if !base58.IsHash(sibling) {
			return fmt.Errorf("%w: sibling %d is not a 32-byte hash", ErrInvalidProofShape, i)
		}
	}
	return nil
}

// Tree returns the proof's tree identifier as a public key.
func (p *AuthenticationProof) Tree() (solana.PublicKey, error) {
	if p == nil {
		return solana.PublicKey{}, errors.New("proof is nil")
	}
	return solana.PublicKeyFromBase58(p.TreeID)
}

// Normalize converts the proof path into the read-only, non-signer account
// references a transaction's remaining-accounts section expects. The result
// has exactly one entry per sibling, in input order. Pure, no I/O.
func Normalize(p *AuthenticationProof) ([]*solana.AccountMeta, error) {
	if err := p.IsValid(); err != nil {
		return nil, err
	}
	accounts := make([]*solana.AccountMeta, 0, len(p.Siblings))
	for i, sibling := range p.Siblings {
		key, err := solana.PublicKeyFromBase58(sibling)
		if err != nil {
			return nil, fmt.Errorf("%w: sibling %d: %v", ErrInvalidProofShape, i, err)
		}
		accounts = append(accounts, solana.NewAccountMeta(key, false, false))
	}
	return accounts, nil
}
