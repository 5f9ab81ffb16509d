package state

import (
	"testing"

	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
)

func TestElectNextSinglePeerReturnsSelf(t *testing.T) {
	peers := []peerid.PeerId{"local"}

	got := ElectNext(peers, peerid.Sentinel)
	if got != "local" {
		t.Fatalf("expected local, got %s", got)
	}
}

func TestElectNextWrapsAround(t *testing.T) {
	peers := []peerid.PeerId{"a", "b", "c"}

	got := ElectNext(peers, "c")
	if got != "a" {
		t.Fatalf("expected wrap to a, got %s", got)
	}
}

func TestElectNextAdvancesOne(t *testing.T) {
	peers := []peerid.PeerId{"a", "b", "c"}

	got := ElectNext(peers, "a")
	if got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
}

func TestElectNextLeaderNotFoundFallsBackToFirst(t *testing.T) {
	peers := []peerid.PeerId{"a", "b", "c"}

	got := ElectNext(peers, peerid.Sentinel)
	if got != "a" {
		t.Fatalf("expected fallback to a, got %s", got)
	}

	got = ElectNext(peers, peerid.PeerId("stale-leader"))
	if got != "a" {
		t.Fatalf("expected fallback to a, got %s", got)
	}
}

func TestElectNextPanicsOnEmptyPeers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty peers")
		}
	}()

	ElectNext(nil, peerid.Sentinel)
}
