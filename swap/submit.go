// Package swap decodes, signs, and submits the prebuilt swap transactions.
package swap

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
)

var (
	// ErrDecodeBase64 marks a leg whose blob is not valid base64.
	ErrDecodeBase64 = errors.New("failed to base64-decode transaction")
	// ErrDeserialize marks a leg whose bytes are not a valid transaction.
	ErrDeserialize = errors.New("failed to deserialize transaction")
)

// Event marks a leg's progress: Decoded -> Signed -> Submitted -> Confirmed,
// or Failed, which halts the run.
type Event int

const (
	EventSigned Event = iota
	EventSubmitted
	EventConfirmed
	EventFailed
)

// Reporter observes per-leg state transitions. sig is zero until submission.
type Reporter func(leg int, event Event, sig solana.Signature, err error)

// Broadcaster is the slice of the RPC client the submitter needs.
type Broadcaster interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// Submitter signs legs with a single local keypair and submits them in order.
type Submitter struct {
	Client         Broadcaster
	Owner          solana.PrivateKey
	ConfirmTimeout time.Duration
	PollInterval   time.Duration

	log zerolog.Logger
}

// NewSubmitter builds a Submitter with the confirmation window used against
// mainnet (finalization usually lands well under two minutes).
func NewSubmitter(client Broadcaster, owner solana.PrivateKey, log zerolog.Logger) *Submitter {
	return &Submitter{
		Client:         client,
		Owner:          owner,
		ConfirmTimeout: 120 * time.Second,
		PollInterval:   5 * time.Second,
		log:            log,
	}
}

// DecodeLegs decodes base64 transaction blobs in order. The first bad leg
// aborts with an error naming the leg and the failing stage.
func DecodeLegs(blobs []string) ([]*solana.Transaction, error) {
	txs := make([]*solana.Transaction, 0, len(blobs))
	for i, blob := range blobs {
		raw, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w: %v", i+1, ErrDecodeBase64, err)
		}
		tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w: %v", i+1, ErrDeserialize, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Sign replaces whatever signatures the server-built transaction carries with
// a fresh one from the owner key. The message content is left untouched.
func (s *Submitter) Sign(tx *solana.Transaction) error {
	tx.Signatures = nil
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.Owner.PublicKey()) {
			return &s.Owner
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// Execute signs and submits each leg in order, waiting for finalization
// before moving on. The first failure aborts; later legs are never attempted.
func (s *Submitter) Execute(ctx context.Context, txs []*solana.Transaction, report Reporter) error {
	for i, tx := range txs {
		leg := i + 1

		if err := s.Sign(tx); err != nil {
			err = fmt.Errorf("leg %d: %w", leg, err)
			emit(report, leg, EventFailed, solana.Signature{}, err)
			return err
		}
		emit(report, leg, EventSigned, solana.Signature{}, nil)

		s.log.Info().Int("leg", leg).Msg("sending transaction")
		sig, err := s.Client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			SkipPreflight: true,
		})
		if err != nil {
			err = fmt.Errorf("leg %d: failed to send transaction: %w", leg, err)
			emit(report, leg, EventFailed, solana.Signature{}, err)
			return err
		}
		emit(report, leg, EventSubmitted, sig, nil)

		if err := s.waitFinalized(ctx, sig); err != nil {
			err = fmt.Errorf("leg %d: failed to confirm transaction %s: %w", leg, sig, err)
			emit(report, leg, EventFailed, sig, err)
			return err
		}
		emit(report, leg, EventConfirmed, sig, nil)
		s.log.Info().Int("leg", leg).Str("txId", sig.String()).Msg("transaction finalized")
	}
	return nil
}

func (s *Submitter) waitFinalized(ctx context.Context, sig solana.Signature) error {
	deadline := time.Now().Add(s.ConfirmTimeout)
	for {
		res, err := s.Client.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			return fmt.Errorf("failed to poll signature status: %w", err)
		}
		if res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction failed on chain: %v", status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("finalization not reached within %s", s.ConfirmTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.PollInterval):
		}
	}
}

func emit(report Reporter, leg int, event Event, sig solana.Signature, err error) {
	if report != nil {
		report(leg, event, sig, err)
	}
}
