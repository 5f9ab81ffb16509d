// Package state holds the node's read-mostly replicated cells and
// append-only artifact sequences, guarded by sync.RWMutex per §5 and §9.1
// of SPEC_FULL.md. No lock is ever held across a channel send or network
// call.
package state

import (
	"sync"

	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
)

// Replicated is the per-node view of peers and the two current leaders.
type Replicated struct {
	mu       sync.RWMutex
	peers    []peerid.PeerId
	signer   peerid.PeerId
	relayer  peerid.PeerId
}

// New creates a Replicated view seeded with the local PeerId, which must
// always be present in Peers() per the invariant in SPEC_FULL.md §3.
func New(local peerid.PeerId) *Replicated {
	return &Replicated{
		peers:   []peerid.PeerId{local},
		signer:  peerid.Sentinel,
		relayer: peerid.Sentinel,
	}
}

// Peers returns a snapshot copy of the local peer view.
func (r *Replicated) Peers() []peerid.PeerId {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]peerid.PeerId, len(r.peers))
	copy(out, r.peers)
	return out
}

// AddPeer appends a peer on discovery/connect if not already present.
func (r *Replicated) AddPeer(id peerid.PeerId) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.peers {
		if p == id {
			return
		}
	}
	r.peers = append(r.peers, id)
}

// RemovePeer removes a peer on disconnect, preserving insertion order of
// the remainder.
func (r *Replicated) RemovePeer(id peerid.PeerId) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.peers {
		if p == id {
			r.peers = append(r.peers[:i], r.peers[i+1:]...)
			return
		}
	}
}

// Signer returns the current believed Signer leader.
func (r *Replicated) Signer() peerid.PeerId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.signer
}

// SetSigner writes a new Signer leader. Only the Signer ElectionWorker
// calls this (single-writer discipline, see SPEC_FULL.md §5).
func (r *Replicated) SetSigner(id peerid.PeerId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signer = id
}

// Relayer returns the current believed Relayer leader.
func (r *Replicated) Relayer() peerid.PeerId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.relayer
}

// SetRelayer writes a new Relayer leader. Only the Relayer ElectionWorker
// calls this.
func (r *Replicated) SetRelayer(id peerid.PeerId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.relayer = id
}
