package state

import "github.com/dplane-collective/solana-tx-p2p/internal/peerid"

// ElectNext implements the round-robin rotation rule from spec §4.2
// step 2: find the current leader's index in peers and advance to the
// next entry, wrapping around; if the current leader isn't present
// (including the initial sentinel), fall back to peers[0]. peers must
// be non-empty — callers hold that invariant by construction (the
// local PeerId is always in peers) and ElectNext panics rather than
// silently misbehave if it is violated.
func ElectNext(peers []peerid.PeerId, current peerid.PeerId) peerid.PeerId {
	if len(peers) == 0 {
		panic("state: ElectNext called with empty peers")
	}

	for i, p := range peers {
		if p == current {
			return peers[(i+1)%len(peers)]
		}
	}

	return peers[0]
}
