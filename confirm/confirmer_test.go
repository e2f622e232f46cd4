package confirm

import (
	"context"
	"encoding/base64"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

type fakeNetwork struct {
	sendErr   error
	statuses  []*rpc.SignatureStatusesResult
	sendCalls atomic.Int32
	polls     atomic.Int32
}

func (f *fakeNetwork) SendRawTransactionWithOpts(ctx context.Context, payload []byte, opts rpc.TransactionOpts) (solana.Signature, error) {
	f.sendCalls.Add(1)
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	return solana.Signature{1, 2, 3}, nil
}

func (f *fakeNetwork) GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	n := int(f.polls.Add(1)) - 1
	if n >= len(f.statuses) {
		n = len(f.statuses) - 1
	}
	if n < 0 {
		return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{nil}}, nil
	}
	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{f.statuses[n]}}, nil
}

// signedFixture returns the serialized bytes of a minimally valid signed
// transaction.
func signedFixture(t *testing.T) []byte {
	t.Helper()
	payer := solana.NewWallet()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			solana.NewInstruction(
				solana.MemoProgramID,
				solana.AccountMetaSlice{solana.NewAccountMeta(payer.PublicKey(), false, true)},
				[]byte("fixture"),
			),
		},
		solana.Hash{9, 9, 9},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer.PrivateKey
		}
		return nil
	})
	require.NoError(t, err)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func fastConfirmer(network Broadcaster) *Confirmer {
	return New(network, nil, WithPolling(time.Millisecond, 50*time.Millisecond))
}

func TestSubmit(t *testing.T) {
	t.Run("serialization round trip is byte exact", func(t *testing.T) {
		raw := signedFixture(t)
		tx, err := solana.TransactionFromBytes(raw)
		require.NoError(t, err)
		again, err := tx.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, raw, again)
	})

	t.Run("confirmed transaction returns the signature", func(t *testing.T) {
		network := &fakeNetwork{statuses: []*rpc.SignatureStatusesResult{
			{Slot: 100, ConfirmationStatus: rpc.ConfirmationStatusProcessed},
			{Slot: 100, ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		}}
		receipt, err := fastConfirmer(network).Submit(context.Background(), signedFixture(t))
		require.NoError(t, err)
		require.Equal(t, solana.Signature{1, 2, 3}.String(), receipt.Signature)
		require.EqualValues(t, 100, receipt.Slot)
	})

	t.Run("garbage payload is malformed, nothing broadcast", func(t *testing.T) {
		network := &fakeNetwork{}
		_, err := fastConfirmer(network).Submit(context.Background(), []byte{0xde, 0xad})
		require.ErrorIs(t, err, ErrMalformedTransaction)
		require.EqualValues(t, 0, network.sendCalls.Load())
	})

	t.Run("bad base64 is malformed", func(t *testing.T) {
		_, err := fastConfirmer(&fakeNetwork{}).SubmitBase64(context.Background(), "!!! not base64 !!!")
		require.ErrorIs(t, err, ErrMalformedTransaction)
	})

	t.Run("insufficient funds surfaces as rejection with the network reason", func(t *testing.T) {
		network := &fakeNetwork{sendErr: errors.New("Transaction simulation failed: insufficient lamports 0")}
		_, err := fastConfirmer(network).Submit(context.Background(), signedFixture(t))
		require.ErrorIs(t, err, ErrSubmissionRejected)
		require.ErrorContains(t, err, "insufficient lamports")
	})

	t.Run("on-chain failure is ConfirmationFailed with the network error", func(t *testing.T) {
		network := &fakeNetwork{statuses: []*rpc.SignatureStatusesResult{
			{Slot: 101, Err: map[string]any{"InstructionError": []any{0, "InvalidAccountData"}}},
		}}
		_, err := fastConfirmer(network).Submit(context.Background(), signedFixture(t))
		require.ErrorIs(t, err, ErrConfirmationFailed)
		require.ErrorContains(t, err, "InstructionError")
		require.NotErrorIs(t, err, ErrConfirmationTimeout)
	})

	t.Run("deadline expiry is a distinct unknown-outcome error", func(t *testing.T) {
		// Status never reaches confirmed; the transaction may still land.
		network := &fakeNetwork{statuses: []*rpc.SignatureStatusesResult{
			{Slot: 102, ConfirmationStatus: rpc.ConfirmationStatusProcessed},
		}}
		_, err := fastConfirmer(network).Submit(context.Background(), signedFixture(t))
		require.ErrorIs(t, err, ErrConfirmationTimeout)
		require.NotErrorIs(t, err, ErrConfirmationFailed)
	})

	t.Run("base64 submit confirms", func(t *testing.T) {
		network := &fakeNetwork{statuses: []*rpc.SignatureStatusesResult{
			{Slot: 103, ConfirmationStatus: rpc.ConfirmationStatusFinalized},
		}}
		encoded := base64.StdEncoding.EncodeToString(signedFixture(t))
		receipt, err := fastConfirmer(network).SubmitBase64(context.Background(), encoded)
		require.NoError(t, err)
		require.NotEmpty(t, receipt.Signature)
	})
}
