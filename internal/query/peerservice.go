// Package query implements spec.md §4.6's query adapters: stateless
// translators from a read-only request into an Instruction event sent to
// PeerWorker, or (for GetTransaction) directly into a BlockchainClient
// lookup.
package query

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/dplane-collective/solana-tx-p2p/internal/actor"
	"github.com/dplane-collective/solana-tx-p2p/internal/blockchain"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
)

// PeerService is the capability query adapters (HTTP, WebSocket, gRPC)
// consume. Kept as an interface, per Design Note 9.5, so an in-memory
// mock can stand in for tests.
type PeerService interface {
	ListPeers(ctx context.Context) ([]peerid.PeerId, error)
	ListSignedMessages(ctx context.Context) ([]solana.Transaction, error)
	ListRelayedTransactions(ctx context.Context) ([]string, error)
	GetTransaction(ctx context.Context, signature string) (*rpc.GetTransactionResult, error)
}

// DefaultPeerService is the production PeerService: list requests go
// through PeerWorker's inbound queue and a one-shot reply channel;
// GetTransaction calls BlockchainClient directly, since it is the one
// operation spec.md §4.6 says "escapes the node".
type DefaultPeerService struct {
	hub   chan<- actor.HubEvent
	chain blockchain.Client
}

// NewDefaultPeerService constructs a DefaultPeerService.
func NewDefaultPeerService(hub chan<- actor.HubEvent, chain blockchain.Client) *DefaultPeerService {
	return &DefaultPeerService{hub: hub, chain: chain}
}

// ListPeers implements PeerService.
func (s *DefaultPeerService) ListPeers(ctx context.Context) ([]peerid.PeerId, error) {
	reply := make(chan []peerid.PeerId, 1)
	select {
	case s.hub <- actor.InstructionListPeers{Reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case peers := <-reply:
		return peers, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ListSignedMessages implements PeerService.
func (s *DefaultPeerService) ListSignedMessages(ctx context.Context) ([]solana.Transaction, error) {
	reply := make(chan []solana.Transaction, 1)
	select {
	case s.hub <- actor.InstructionListSignedMessages{Reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case txs := <-reply:
		return txs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ListRelayedTransactions implements PeerService.
func (s *DefaultPeerService) ListRelayedTransactions(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	select {
	case s.hub <- actor.InstructionListRelayedTransactions{Reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case sigs := <-reply:
		return sigs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetTransaction implements PeerService.
func (s *DefaultPeerService) GetTransaction(ctx context.Context, signature string) (*rpc.GetTransactionResult, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("query: malformed signature %q: %w", signature, err)
	}
	return s.chain.GetTransactionWithConfig(ctx, sig)
}
