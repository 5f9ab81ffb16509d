package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// pollInterval is how often ConfirmTransaction re-checks signature status.
const pollInterval = 500 * time.Millisecond

// RPCClient is the real Client backed by a Solana JSON-RPC endpoint.
type RPCClient struct {
	rpc *rpc.Client
}

// NewRPCClient dials url (spec.md §6 SOLANA_RPC_URL).
func NewRPCClient(url string) *RPCClient {
	return &RPCClient{rpc: rpc.New(url)}
}

// RequestAirdrop implements Client.
func (c *RPCClient) RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, pubkey, lamports, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("blockchain: request airdrop: %w", err)
	}
	return sig, nil
}

// ConfirmTransaction implements Client. It polls until the signature shows
// a confirmed (or finalized) status or ctx is done.
func (c *RPCClient) ConfirmTransaction(ctx context.Context, signature solana.Signature) (bool, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			out, err := c.rpc.GetSignatureStatuses(ctx, true, signature)
			if err != nil {
				return false, fmt.Errorf("blockchain: get signature statuses: %w", err)
			}
			if len(out.Value) == 0 || out.Value[0] == nil {
				continue
			}
			status := out.Value[0]
			if status.Err != nil {
				return false, fmt.Errorf("blockchain: transaction %s failed: %v", signature, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return true, nil
			}
		}
	}
}

// GetLatestBlockhash implements Client.
func (c *RPCClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("blockchain: get latest blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}

// SendAndConfirmTransaction implements Client.
func (c *RPCClient) SendAndConfirmTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("blockchain: send transaction: %w", err)
	}

	if _, err := c.ConfirmTransaction(ctx, sig); err != nil {
		return solana.Signature{}, fmt.Errorf("blockchain: confirm transaction: %w", err)
	}

	return sig, nil
}

// GetTransactionWithConfig implements Client, matching spec.md §6's
// {encoding=JSON, commitment=confirmed, max_version=0} contract.
func (c *RPCClient) GetTransactionWithConfig(ctx context.Context, signature solana.Signature) (*rpc.GetTransactionResult, error) {
	maxVersion := uint64(0)
	commitment := rpc.CommitmentConfirmed

	out, err := c.rpc.GetTransaction(ctx, signature, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingJSON,
		Commitment:                     commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("blockchain: get transaction: %w", err)
	}
	return out, nil
}
