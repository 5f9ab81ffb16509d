package grpcapi

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
)

type stubService struct {
	peers    []peerid.PeerId
	peersErr error
	signed   []solana.Transaction
	relayed  []string
	txDetail *rpc.GetTransactionResult
	txErr    error
}

func (s *stubService) ListPeers(context.Context) ([]peerid.PeerId, error) { return s.peers, s.peersErr }
func (s *stubService) ListSignedMessages(context.Context) ([]solana.Transaction, error) {
	return s.signed, nil
}
func (s *stubService) ListRelayedTransactions(context.Context) ([]string, error) {
	return s.relayed, nil
}
func (s *stubService) GetTransaction(context.Context, string) (*rpc.GetTransactionResult, error) {
	return s.txDetail, s.txErr
}

func TestListPeersTranslatesPeerIds(t *testing.T) {
	srv := &server{service: &stubService{peers: []peerid.PeerId{"a", "b"}}}

	resp, err := srv.listPeers(context.Background(), &ListPeersRequest{})
	if err != nil {
		t.Fatalf("listPeers: %v", err)
	}
	if len(resp.Peers) != 2 || resp.Peers[0] != "a" || resp.Peers[1] != "b" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestListPeersPropagatesError(t *testing.T) {
	srv := &server{service: &stubService{peersErr: errors.New("boom")}}

	if _, err := srv.listPeers(context.Background(), &ListPeersRequest{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListRelayedTransactionsPassesThrough(t *testing.T) {
	srv := &server{service: &stubService{relayed: []string{"sig1", "sig2"}}}

	resp, err := srv.listRelayedTransactions(context.Background(), &ListRelayedTransactionsRequest{})
	if err != nil {
		t.Fatalf("listRelayedTransactions: %v", err)
	}
	if len(resp.Signatures) != 2 || resp.Signatures[1] != "sig2" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGetTransactionMarshalsDetail(t *testing.T) {
	srv := &server{service: &stubService{txDetail: &rpc.GetTransactionResult{}}}

	resp, err := srv.getTransaction(context.Background(), &GetTransactionRequest{Signature: "abc"})
	if err != nil {
		t.Fatalf("getTransaction: %v", err)
	}
	if resp.Transaction == "" {
		t.Fatalf("expected non-empty marshaled transaction body")
	}
}

func TestNewServerRegistersService(t *testing.T) {
	s := NewServer(&stubService{})
	info := s.GetServiceInfo()
	if _, ok := info[ServiceName]; !ok {
		t.Fatalf("expected %s registered, got %v", ServiceName, info)
	}
}
