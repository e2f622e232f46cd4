package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func writeKeygenFile(t *testing.T, key solana.PrivateKey) string {
	t.Helper()
	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func unsignedFixture(t *testing.T, payer solana.PublicKey) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			solana.NewInstruction(
				solana.MemoProgramID,
				solana.AccountMetaSlice{solana.NewAccountMeta(payer, false, true)},
				[]byte("fixture"),
			),
		},
		solana.Hash{1},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	return tx
}

func TestLocal(t *testing.T) {
	t.Run("load from keygen file and sign", func(t *testing.T) {
		owner := solana.NewWallet()
		path := writeKeygenFile(t, owner.PrivateKey)

		w, err := LoadLocal(path)
		require.NoError(t, err)
		require.True(t, w.Connected())
		require.Equal(t, owner.PublicKey(), w.Address())

		tx := unsignedFixture(t, w.Address())
		require.NoError(t, w.SignTransaction(tx))
		require.NoError(t, tx.VerifySignatures())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLocal(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})

	t.Run("disconnected wallet refuses to sign", func(t *testing.T) {
		var w *Local
		require.False(t, w.Connected())

		empty := &Local{}
		tx := unsignedFixture(t, solana.NewWallet().PublicKey())
		require.ErrorIs(t, empty.SignTransaction(tx), ErrNotConnected)
	})
}
