/*
Package wallet defines the single wallet-capability surface the rest of the
system depends on: an address, a connection state, and the ability to sign
a transaction. Bridging a concrete wallet library means implementing this
interface once; nothing else may depend on a second connection state.
*/
package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
)

// ErrNotConnected - the wallet has no usable key material.
var ErrNotConnected = errors.New("wallet not connected")

// Wallet is the capability surface for anything that can sign.
type Wallet interface {
	Address() solana.PublicKey
	Connected() bool
	SignTransaction(tx *solana.Transaction) error
}

// Local is a wallet backed by a keygen file on disk. Used by the
// operational tooling; the HTTP service never holds one.
type Local struct {
	key solana.PrivateKey
}

// DefaultKeygenPaths returns the usual keygen file locations, in lookup
// order.
func DefaultKeygenPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "solana", "id.json"),
		filepath.Join(home, ".config", "solana", "devnet-wallet.json"),
	}
}

// LoadLocal reads a keygen file. With an empty path the default locations
// are tried in order.
func LoadLocal(path string) (*Local, error) {
	paths := []string{path}
	if path == "" {
		paths = DefaultKeygenPaths()
	}
	var lastErr error = ErrNotConnected
	for _, p := range paths {
		if p == "" {
			continue
		}
		key, err := solana.PrivateKeyFromSolanaKeygenFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		return &Local{key: key}, nil
	}
	return nil, fmt.Errorf("loading wallet keygen file: %w", lastErr)
}

// NewLocal wraps an in-memory key, mainly for tests.
func NewLocal(key solana.PrivateKey) *Local {
	return &Local{key: key}
}

func (l *Local) Address() solana.PublicKey {
	if l == nil {
		return solana.PublicKey{}
	}
	return l.key.PublicKey()
}

func (l *Local) Connected() bool {
	return l != nil && len(l.key) > 0
}

func (l *Local) SignTransaction(tx *solana.Transaction) error {
	if !l.Connected() {
		return ErrNotConnected
	}
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(l.key.PublicKey()) {
			return &l.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("signing transaction: %w", err)
	}
	return nil
}
