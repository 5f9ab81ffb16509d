package blockchain

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Fake is an in-memory Client for tests (spec.md S1's "mocked
// BlockchainClient returning a fixed signature"). It is exported so
// internal/actor's Signer/Relayer tests can exercise the same
// implementation without a live RPC endpoint.
type Fake struct {
	mu          sync.Mutex
	Sig         solana.Signature
	Airdrops    int
	Sent        []solana.Transaction
	ConfirmFail bool
}

// NewFake constructs a Fake that always returns sig from the operations
// that produce a signature.
func NewFake(sig solana.Signature) *Fake {
	return &Fake{Sig: sig}
}

func (f *Fake) RequestAirdrop(_ context.Context, _ solana.PublicKey, _ uint64) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Airdrops++
	return f.Sig, nil
}

func (f *Fake) ConfirmTransaction(_ context.Context, _ solana.Signature) (bool, error) {
	if f.ConfirmFail {
		return false, nil
	}
	return true, nil
}

func (f *Fake) GetLatestBlockhash(context.Context) (solana.Hash, error) {
	return solana.Hash{1, 2, 3}, nil
}

func (f *Fake) SendAndConfirmTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, *tx)
	return f.Sig, nil
}

func (f *Fake) GetTransactionWithConfig(context.Context, solana.Signature) (*rpc.GetTransactionResult, error) {
	return &rpc.GetTransactionResult{}, nil
}

// SentCount reports how many transactions have been submitted so far.
func (f *Fake) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}
