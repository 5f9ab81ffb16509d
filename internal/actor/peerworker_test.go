package actor

import (
	"context"
	"testing"
	"time"

	"github.com/dplane-collective/solana-tx-p2p/internal/gossip"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
)

// fakeBus is an in-memory gossip.Bus recording every publish, used to
// test PeerWorker's routing logic without a real libp2p swarm.
type fakeBus struct {
	published  chan gossip.Delivery
	deliveries chan gossip.Delivery
	discovery  chan gossip.DiscoveryEvent
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		published:  make(chan gossip.Delivery, 100),
		deliveries: make(chan gossip.Delivery, 100),
		discovery:  make(chan gossip.DiscoveryEvent, 100),
	}
}

func (b *fakeBus) Publish(topic string, data []byte) error {
	b.published <- gossip.Delivery{Topic: topic, Data: data}
	return nil
}
func (b *fakeBus) Deliveries() <-chan gossip.Delivery      { return b.deliveries }
func (b *fakeBus) Discovery() <-chan gossip.DiscoveryEvent { return b.discovery }
func (b *fakeBus) Close() error                            { return nil }

func newTestPeerWorker() (*PeerWorker, *fakeBus, *shutdown.Signal) {
	bus := newFakeBus()
	sig := shutdown.New()
	r := state.New(peerid.PeerId("local"))

	w := NewPeerWorker(PeerWorkerConfig{
		Local:         peerid.PeerId("local"),
		Bus:           bus,
		Replicated:    r,
		SignedLedger:  state.NewLedger[state.SignedArtifact](),
		RelayedLedger: state.NewLedger[state.RelayedArtifact](),
		ToSigner:      make(chan RawMessage, inboundQueueSize),
		ToRelayer:     make(chan TransactionEvent, inboundQueueSize),
		ToSignerHB:    make(chan struct{}, triggerQueueSize),
		ToSignerSync:  make(chan state.LeaderSyncInfo, inboundQueueSize),
		ToRelayerHB:   make(chan struct{}, triggerQueueSize),
		ToRelayerSync: make(chan state.LeaderSyncInfo, inboundQueueSize),
		Shutdown:      sig,
	})
	return w, bus, sig
}

func TestPeerWorkerMessageTriggerPublishesAndForwards(t *testing.T) {
	w, bus, sig := newTestPeerWorker()
	defer sig.Fire()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Inbound() <- MessageTrigger{}

	select {
	case d := <-bus.published:
		if d.Topic != gossip.TopicMessage {
			t.Fatalf("expected publish on %s, got %s", gossip.TopicMessage, d.Topic)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for publish")
	}
}

func TestPeerWorkerConnectionEventsMutatePeers(t *testing.T) {
	w, bus, sig := newTestPeerWorker()
	defer sig.Fire()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	bus.discovery <- gossip.DiscoveryEvent{Kind: gossip.ConnectionEstablished, Peer: "b"}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		peers := w.Peers()
		if len(peers) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	peers := w.Peers()
	if len(peers) != 2 || peers[1] != "b" {
		t.Fatalf("expected [local b], got %v", peers)
	}

	bus.discovery <- gossip.DiscoveryEvent{Kind: gossip.ConnectionClosed, Peer: "b"}

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(w.Peers()) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected peer b removed, got %v", w.Peers())
}

func TestPeerWorkerTransactionEventAppendsAndForwardsToRelayer(t *testing.T) {
	bus := newFakeBus()
	sig := shutdown.New()
	defer sig.Fire()
	r := state.New(peerid.PeerId("local"))
	toRelayer := make(chan TransactionEvent, 1)

	w := NewPeerWorker(PeerWorkerConfig{
		Local:         peerid.PeerId("local"),
		Bus:           bus,
		Replicated:    r,
		SignedLedger:  state.NewLedger[state.SignedArtifact](),
		RelayedLedger: state.NewLedger[state.RelayedArtifact](),
		ToSigner:      make(chan RawMessage, 1),
		ToRelayer:     toRelayer,
		ToSignerHB:    make(chan struct{}, 1),
		ToSignerSync:  make(chan state.LeaderSyncInfo, 1),
		ToRelayerHB:   make(chan struct{}, 1),
		ToRelayerSync: make(chan state.LeaderSyncInfo, 1),
		Shutdown:      sig,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Inbound() <- TransactionEvent{}

	select {
	case <-toRelayer:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for forward to relayer")
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(w.SignedMessages()) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected 1 signed message, got %d", len(w.SignedMessages()))
}

func TestPeerWorkerInboundTransactionTopicIsIgnored(t *testing.T) {
	w, bus, sig := newTestPeerWorker()
	defer sig.Fire()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	bus.deliveries <- gossip.Delivery{Topic: gossip.TopicTransaction, Data: []byte("{}")}

	time.Sleep(50 * time.Millisecond)
	if len(w.SignedMessages()) != 0 {
		t.Fatalf("expected inbound transaction topic to not append SignedArtifact (O1)")
	}
}

func TestPeerWorkerRelayedTransactionTopicAppends(t *testing.T) {
	w, bus, sig := newTestPeerWorker()
	defer sig.Fire()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	bus.deliveries <- gossip.Delivery{Topic: gossip.TopicRelayedTransaction, Data: []byte("sig123")}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(w.RelayedTransactions()) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected relayed transaction appended")
}
