// Package blockchain is the BlockchainClient collaborator from spec.md §6:
// an opaque remote Solana RPC endpoint used for airdrop bootstrap, blockhash
// fetch, transaction submission, and transaction lookup.
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client is the five operations spec.md §6 requires. A production
// implementation wraps gagliardetto/solana-go/rpc.Client; tests use an
// in-memory fake (see client_test.go).
type Client interface {
	// RequestAirdrop requests lamports be credited to pubkey, returning
	// the airdrop transaction's signature.
	RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64) (solana.Signature, error)

	// ConfirmTransaction polls until signature is confirmed or ctx expires.
	ConfirmTransaction(ctx context.Context, signature solana.Signature) (bool, error)

	// GetLatestBlockhash fetches a blockhash fresh enough to build a
	// transaction against.
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)

	// SendAndConfirmTransaction submits tx and waits for confirmation,
	// returning the transaction's signature.
	SendAndConfirmTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)

	// GetTransactionWithConfig looks up a previously submitted
	// transaction by signature.
	GetTransactionWithConfig(ctx context.Context, signature solana.Signature) (*rpc.GetTransactionResult, error)
}
