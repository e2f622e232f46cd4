/*
Package confirm submits client-signed transactions and awaits finality at
the confirmed commitment level.

A broadcast transaction cannot be cancelled. When the wait deadline expires
the outcome is unknown - the transaction may still land - so the timeout is
reported as its own error kind, distinct from a definite on-chain failure.
*/
package confirm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

var (
	// ErrMalformedTransaction - the payload does not deserialize to a
	// transaction. Nothing was broadcast; safe to retry after fixing input.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrSubmissionRejected - the network refused the transaction before
	// broadcast (preflight). Nothing happened; the caller must restart the
	// flow with a fresh block reference, from the proof-fetch step if the
	// rejection indicates a stale proof.
	ErrSubmissionRejected = errors.New("transaction rejected on submission")

	// ErrConfirmationFailed - the transaction landed on-chain and failed
	// there. It consumed its slot; resubmitting the same bytes cannot help.
	ErrConfirmationFailed = errors.New("transaction failed on-chain")

	// ErrConfirmationTimeout - the wait deadline passed with the outcome
	// unknown. The transaction may still confirm later; callers must verify
	// before retrying, never assume failure.
	ErrConfirmationTimeout = errors.New("confirmation wait expired, outcome unknown")
)

const (
	defaultPollInterval = 2 * time.Second
	defaultWaitDeadline = 60 * time.Second
)

type (
	// Broadcaster is the network surface the confirmer needs. Satisfied by
	// rpc.Client.
	Broadcaster interface {
		SendRawTransactionWithOpts(ctx context.Context, payload []byte, opts rpc.TransactionOpts) (solana.Signature, error)
		GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	}

	Confirmer struct {
		network      Broadcaster
		log          *zap.Logger
		pollInterval time.Duration
		waitDeadline time.Duration
	}

	Option func(*Confirmer)

	// Receipt reports a confirmed submission. The minted asset id is NOT
	// part of the receipt: the index needs its own delay (~10-20s observed)
	// before the asset becomes queryable, and "mint confirmed" and "asset
	// indexed" are two separate facts.
	Receipt struct {
		Signature string `json:"signature"`
		Slot      uint64 `json:"slot"`
	}
)

// WithPolling overrides the poll schedule, mainly for tests.
func WithPolling(interval, deadline time.Duration) Option {
	return func(c *Confirmer) {
		c.pollInterval = interval
		c.waitDeadline = deadline
	}
}

func New(network Broadcaster, log *zap.Logger, opts ...Option) *Confirmer {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Confirmer{
		network:      network,
		log:          log.Named("confirm"),
		pollInterval: defaultPollInterval,
		waitDeadline: defaultWaitDeadline,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitBase64 decodes, submits and confirms a base64 serialized signed
// transaction.
func (c *Confirmer) SubmitBase64(ctx context.Context, serializedSignedTx string) (*Receipt, error) {
	raw, err := base64.StdEncoding.DecodeString(serializedSignedTx)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding base64: %v", ErrMalformedTransaction, err)
	}
	return c.Submit(ctx, raw)
}

// Submit broadcasts the signed transaction with preflight checks enabled
// and polls until the confirmed commitment level or the wait deadline.
func (c *Confirmer) Submit(ctx context.Context, raw []byte) (*Receipt, error) {
	tx, err := solana.TransactionFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}

	sig, err := c.network.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		// Preflight rejections surface the network's reason verbatim.
		return nil, fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}

	c.log.Info("transaction broadcast",
		zap.Stringer("signature", sig),
		zap.String("feePayer", tx.Message.AccountKeys[0].String()))

	return c.await(ctx, sig)
}

func (c *Confirmer) await(ctx context.Context, sig solana.Signature) (*Receipt, error) {
	deadline := time.NewTimer(c.waitDeadline)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.signatureStatus(ctx, sig)
		if err == nil && status != nil {
			if status.Err != nil {
				c.log.Warn("transaction failed on-chain",
					zap.Stringer("signature", sig),
					zap.Any("error", status.Err))
				return nil, fmt.Errorf("%w: %v (retry from the proof-fetch step, not the sign step)", ErrConfirmationFailed, status.Err)
			}
			if confirmed(status.ConfirmationStatus) {
				c.log.Info("transaction confirmed",
					zap.Stringer("signature", sig),
					zap.Uint64("slot", status.Slot))
				return &Receipt{Signature: sig.String(), Slot: status.Slot}, nil
			}
		}
		if err != nil {
			c.log.Debug("status poll failed", zap.Stringer("signature", sig), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrConfirmationTimeout, sig, ctx.Err())
		case <-deadline.C:
			return nil, fmt.Errorf("%w: %s", ErrConfirmationTimeout, sig)
		case <-ticker.C:
		}
	}
}

func (c *Confirmer) signatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	out, err := c.network.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

func confirmed(status rpc.ConfirmationStatusType) bool {
	return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
}
