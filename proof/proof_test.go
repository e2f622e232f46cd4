package proof

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func newProof(t *testing.T, siblings int) *AuthenticationProof {
	t.Helper()
	p := &AuthenticationProof{
		Root:      solana.NewWallet().PublicKey().String(),
		Leaf:      solana.NewWallet().PublicKey().String(),
		TreeID:    solana.NewWallet().PublicKey().String(),
		NodeIndex: 16384,
	}
	for i := 0; i < siblings; i++ {
		p.Siblings = append(p.Siblings, solana.NewWallet().PublicKey().String())
	}
	return p
}

func TestNormalize(t *testing.T) {
	t.Run("one account per sibling in input order", func(t *testing.T) {
		p := newProof(t, 14)
		accounts, err := Normalize(p)
		require.NoError(t, err)
		require.Len(t, accounts, 14)
		for i, acc := range accounts {
			require.Equal(t, p.Siblings[i], acc.PublicKey.String())
			require.False(t, acc.IsSigner)
			require.False(t, acc.IsWritable)
		}
	})

	t.Run("empty path is valid", func(t *testing.T) {
		accounts, err := Normalize(newProof(t, 0))
		require.NoError(t, err)
		require.Empty(t, accounts)
	})

	t.Run("nil proof", func(t *testing.T) {
		_, err := Normalize(nil)
		require.ErrorContains(t, err, "proof is nil")
	})

	t.Run("malformed sibling", func(t *testing.T) {
		p := newProof(t, 3)
		p.Siblings[1] = "tooShort"
		_, err := Normalize(p)
		require.ErrorIs(t, err, ErrInvalidProofShape)
	})

	t.Run("malformed root", func(t *testing.T) {
		p := newProof(t, 3)
		p.Root = "not a hash"
		_, err := Normalize(p)
		require.ErrorIs(t, err, ErrInvalidProofShape)
	})
}

func TestTree(t *testing.T) {
	p := newProof(t, 1)
	key, err := p.Tree()
	require.NoError(t, err)
	require.Equal(t, p.TreeID, key.String())
}
