package gossip

import (
	"context"
	"fmt"
	"sync"

	libp2p "github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	"github.com/multiformats/go-multiaddr"

	"github.com/gagliardetto/solana-go"

	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
)

// mdnsRendezvous is the local-network discovery namespace. The spec has
// no notion of multiple isolated networks, so a single fixed tag is used.
const mdnsRendezvous = "solana-tx-p2p"

// Libp2pBus is the real PeerBus implementation: a libp2p host running
// GossipSub over the six spec topics, with mDNS local discovery.
type Libp2pBus struct {
	ctx    context.Context
	cancel context.CancelFunc

	host   host.Host
	pubsub *pubsub.PubSub
	mdns   mdns.Service

	topics map[string]*pubsub.Topic
	subs   map[string]*pubsub.Subscription

	deliveries chan Delivery
	discovery  chan DiscoveryEvent

	idByPeer sync.Map // peer.ID -> peerid.PeerId, populated lazily from first seen message
}

// NewLibp2pBus starts a libp2p host bound to listenAddr (e.g.
// "/ip4/0.0.0.0/tcp/0"), using priv as both the libp2p transport identity
// and the source of the local PeerId (see internal/peerid), joins all six
// topics, and starts mDNS discovery.
func NewLibp2pBus(listenAddr string, priv libp2pcrypto.PrivKey) (*Libp2pBus, error) {
	ctx, cancel := context.WithCancel(context.Background())

	addr, err := multiaddr.NewMultiaddr(listenAddr)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("gossip: parse listen addr: %w", err)
	}

	h, err := libp2p.New(
		libp2p.ListenAddrs(addr),
		libp2p.Identity(priv),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("gossip: create libp2p host: %w", err)
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		h.Close()
		cancel()
		return nil, fmt.Errorf("gossip: create gossipsub: %w", err)
	}

	b := &Libp2pBus{
		ctx:        ctx,
		cancel:     cancel,
		host:       h,
		pubsub:     ps,
		topics:     make(map[string]*pubsub.Topic),
		subs:       make(map[string]*pubsub.Subscription),
		deliveries: make(chan Delivery, 100),
		discovery:  make(chan DiscoveryEvent, 100),
	}

	for _, t := range Topics {
		if err := b.joinAndSubscribe(t); err != nil {
			b.Close()
			return nil, err
		}
	}

	h.Network().Notify(&connNotifiee{bus: b})

	svc := mdns.NewMdnsService(h, mdnsRendezvous, &mdnsNotifee{bus: b})
	if err := svc.Start(); err != nil {
		b.Close()
		return nil, fmt.Errorf("gossip: start mdns: %w", err)
	}
	b.mdns = svc

	return b, nil
}

func (b *Libp2pBus) joinAndSubscribe(topicName string) error {
	topic, err := b.pubsub.Join(topicName)
	if err != nil {
		return fmt.Errorf("gossip: join topic %s: %w", topicName, err)
	}

	sub, err := topic.Subscribe()
	if err != nil {
		topic.Close()
		return fmt.Errorf("gossip: subscribe topic %s: %w", topicName, err)
	}

	b.topics[topicName] = topic
	b.subs[topicName] = sub

	go b.readLoop(topicName, sub)
	return nil
}

func (b *Libp2pBus) readLoop(topicName string, sub *pubsub.Subscription) {
	for {
		msg, err := sub.Next(b.ctx)
		if err != nil {
			return
		}
		if msg.ReceivedFrom == b.host.ID() {
			continue
		}

		from := b.peerIdFor(msg.ReceivedFrom)
		select {
		case b.deliveries <- Delivery{Topic: topicName, From: from, Data: msg.Data}:
		case <-b.ctx.Done():
			return
		}
	}
}

// peerIdFor recovers the on-chain PeerId from a libp2p peer.ID. Because
// every node's libp2p identity is derived from the same Ed25519 key as
// its PeerId (internal/peerid.Generate), the public key is embedded
// directly in small Ed25519 peer IDs and can be extracted without a
// handshake.
func (b *Libp2pBus) peerIdFor(p peer.ID) peerid.PeerId {
	if v, ok := b.idByPeer.Load(p); ok {
		return v.(peerid.PeerId)
	}

	pub, err := p.ExtractPublicKey()
	if err != nil {
		return peerid.PeerId(p.String())
	}

	raw, err := pub.Raw()
	if err != nil {
		return peerid.PeerId(p.String())
	}

	id := peerid.PeerId(solana.PublicKeyFromBytes(raw).String())
	b.idByPeer.Store(p, id)
	return id
}

// Publish implements Bus.
func (b *Libp2pBus) Publish(topicName string, data []byte) error {
	topic, ok := b.topics[topicName]
	if !ok {
		return fmt.Errorf("gossip: unknown topic %s", topicName)
	}
	return topic.Publish(b.ctx, data)
}

// Deliveries implements Bus.
func (b *Libp2pBus) Deliveries() <-chan Delivery { return b.deliveries }

// Discovery implements Bus.
func (b *Libp2pBus) Discovery() <-chan DiscoveryEvent { return b.discovery }

// Close implements Bus.
func (b *Libp2pBus) Close() error {
	b.cancel()
	if b.mdns != nil {
		b.mdns.Close()
	}
	for _, sub := range b.subs {
		sub.Cancel()
	}
	for _, topic := range b.topics {
		topic.Close()
	}
	return b.host.Close()
}

// mdnsNotifee forwards mDNS discovery into Discovered/Expired events and
// dials newly found peers.
type mdnsNotifee struct {
	bus *Libp2pBus
}

func (n *mdnsNotifee) HandlePeerFound(pi peer.AddrInfo) {
	if err := n.bus.host.Connect(n.bus.ctx, pi); err != nil {
		return
	}
	n.emit(Discovered, pi.ID)
}

func (n *mdnsNotifee) emit(kind DiscoveryKind, p peer.ID) {
	select {
	case n.bus.discovery <- DiscoveryEvent{Kind: kind, Peer: n.bus.peerIdFor(p)}:
	case <-n.bus.ctx.Done():
	}
}

// connNotifiee translates libp2p network-level connect/disconnect into
// ConnectionEstablished/ConnectionClosed discovery events.
type connNotifiee struct {
	bus *Libp2pBus
}

func (c *connNotifiee) Connected(_ network.Network, conn network.Conn) {
	c.emit(ConnectionEstablished, conn.RemotePeer())
}

func (c *connNotifiee) Disconnected(_ network.Network, conn network.Conn) {
	c.emit(ConnectionClosed, conn.RemotePeer())
}

func (c *connNotifiee) Listen(network.Network, multiaddr.Multiaddr)      {}
func (c *connNotifiee) ListenClose(network.Network, multiaddr.Multiaddr) {}

func (c *connNotifiee) emit(kind DiscoveryKind, p peer.ID) {
	select {
	case c.bus.discovery <- DiscoveryEvent{Kind: kind, Peer: c.bus.peerIdFor(p)}:
	case <-c.bus.ctx.Done():
	}
}
