package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
)

type stubService struct {
	peers      []peerid.PeerId
	peersErr   error
	signed     []solana.Transaction
	relayed    []string
	txDetail   *rpc.GetTransactionResult
	txErr      error
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

func TestDiscoveryReturnsPeerList(t *testing.T) {
	svc := &stubService{peers: []peerid.PeerId{"a", "b"}}
	router := NewRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/peer/discovery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestDiscoveryErrorMapsToJSONMessageBody(t *testing.T) {
	svc := &stubService{peersErr: errors.New("boom")}
	router := NewRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/peer/discovery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "boom" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestTransactionDetailUsesPathVar(t *testing.T) {
	svc := &stubService{txDetail: &rpc.GetTransactionResult{}}
	router := NewRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/peer/relayed-transaction/abc123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
