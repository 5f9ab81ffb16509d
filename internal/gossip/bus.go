// Package gossip is the PeerBus collaborator from spec.md §6: a named-topic
// flooding pub/sub with local peer discovery. PeerWorker only ever talks to
// the Bus interface; the libp2p wiring lives entirely in bus_libp2p.go.
package gossip

import "github.com/dplane-collective/solana-tx-p2p/internal/peerid"

// Topic names, exactly as spec.md §3/§6 lists them. Every node subscribes
// to all six at startup.
const (
	TopicMessage            = "message"
	TopicHeartbeat          = "heartbeat"
	TopicRelayerInfo        = "relayer-info"
	TopicSignerInfo         = "signer-info"
	TopicTransaction        = "transaction"
	TopicRelayedTransaction = "relayed-transaction"
)

// Topics lists all six subscribed at startup, in the order PeerWorker
// joins them.
var Topics = [...]string{
	TopicMessage,
	TopicHeartbeat,
	TopicRelayerInfo,
	TopicSignerInfo,
	TopicTransaction,
	TopicRelayedTransaction,
}

// Delivery is one message received on a subscribed topic.
type Delivery struct {
	Topic  string
	From   peerid.PeerId
	Data   []byte
}

// DiscoveryKind distinguishes the four discovery/connection events
// spec.md §4.1 names.
type DiscoveryKind int

const (
	Discovered DiscoveryKind = iota
	Expired
	ConnectionEstablished
	ConnectionClosed
)

// DiscoveryEvent is one peer lifecycle notification from the transport.
type DiscoveryEvent struct {
	Kind DiscoveryKind
	Peer peerid.PeerId
}

// Bus is the black-box gossip collaborator spec.md §6 describes: per-topic
// publish/deliver plus peer discovery, with nothing about libp2p leaking
// into callers.
type Bus interface {
	// Publish sends data on topic to the swarm.
	Publish(topic string, data []byte) error

	// Deliveries yields every message received on any subscribed topic,
	// excluding messages this node published itself.
	Deliveries() <-chan Delivery

	// Discovery yields peer lifecycle events.
	Discovery() <-chan DiscoveryEvent

	// Close tears down the host, topics, and subscriptions.
	Close() error
}
