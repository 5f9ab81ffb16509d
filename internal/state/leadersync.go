package state

import (
	"encoding/json"
	"time"

	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
)

// LeaderSyncInfo is broadcast on the relayer-info/signer-info topics
// whenever an ElectionWorker advances a round. Receivers adopt it
// unconditionally (last-writer-wins, spec §5).
type LeaderSyncInfo struct {
	Leader        peerid.PeerId `json:"leader"`
	NextRoundTime time.Time     `json:"next_round_time"`
}

// Encode serializes to the wire JSON shape spec.md §6 mandates:
// {"leader": "<string>", "next_round_time": "<RFC 3339 UTC>"}.
func (l LeaderSyncInfo) Encode() ([]byte, error) {
	return json.Marshal(struct {
		Leader        string `json:"leader"`
		NextRoundTime string `json:"next_round_time"`
	}{
		Leader:        string(l.Leader),
		NextRoundTime: l.NextRoundTime.UTC().Format(time.RFC3339Nano),
	})
}

// DecodeLeaderSyncInfo parses the wire JSON shape. Malformed payloads
// return an error so PeerWorker can log-and-drop per spec §4.1.
func DecodeLeaderSyncInfo(b []byte) (LeaderSyncInfo, error) {
	var wire struct {
		Leader        string `json:"leader"`
		NextRoundTime string `json:"next_round_time"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return LeaderSyncInfo{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, wire.NextRoundTime)
	if err != nil {
		return LeaderSyncInfo{}, err
	}

	return LeaderSyncInfo{Leader: peerid.PeerId(wire.Leader), NextRoundTime: t}, nil
}
