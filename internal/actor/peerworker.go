package actor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dplane-collective/solana-tx-p2p/internal/audit"
	"github.com/dplane-collective/solana-tx-p2p/internal/gossip"
	"github.com/dplane-collective/solana-tx-p2p/internal/logging"
	"github.com/dplane-collective/solana-tx-p2p/internal/metricsapi"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
	"github.com/dplane-collective/solana-tx-p2p/internal/wsapi"
)

// PeerWorker is the hub described in spec.md §4.1: it owns the PeerBus,
// the ReplicatedState writer handles for peers, and the two append-only
// artifact ledgers, and fans events out to the Signer, Relayer, and both
// ElectionWorkers.
type PeerWorker struct {
	local peerid.PeerId
	bus   gossip.Bus

	replicated    *state.Replicated
	signedLedger  *state.Ledger[state.SignedArtifact]
	relayedLedger *state.Ledger[state.RelayedArtifact]

	inbound chan HubEvent

	toSigner      chan<- RawMessage
	toRelayer     chan<- TransactionEvent
	toSignerHB    chan<- struct{}
	toRelayerHB   chan<- struct{}
	toSignerSync  chan<- state.LeaderSyncInfo
	toRelayerSync chan<- state.LeaderSyncInfo

	metrics *metricsapi.Metrics
	ws      *wsapi.Hub
	audit   *audit.Trail

	shutdown *shutdown.Signal
	log      *zap.Logger
}

// PeerWorkerConfig bundles the channel endpoints constructed by the
// caller before any actor is spawned, per Design Note 9.3: build all
// senders first, then pass handles into each actor, then spawn.
type PeerWorkerConfig struct {
	Local peerid.PeerId
	Bus   gossip.Bus

	Replicated    *state.Replicated
	SignedLedger  *state.Ledger[state.SignedArtifact]
	RelayedLedger *state.Ledger[state.RelayedArtifact]

	ToSigner      chan<- RawMessage
	ToRelayer     chan<- TransactionEvent
	ToSignerHB    chan<- struct{}
	ToSignerSync  chan<- state.LeaderSyncInfo
	ToRelayerHB   chan<- struct{}
	ToRelayerSync chan<- state.LeaderSyncInfo

	// Metrics, WS, and Audit are optional (expansion): nil disables the
	// corresponding side effect.
	Metrics *metricsapi.Metrics
	WS      *wsapi.Hub
	Audit   *audit.Trail

	Shutdown *shutdown.Signal
}

// NewPeerWorker constructs a PeerWorker with a fresh bounded inbound
// queue. Callers use Inbound() to obtain the send side for Triggers and
// query adapters.
func NewPeerWorker(cfg PeerWorkerConfig) *PeerWorker {
	return &PeerWorker{
		local:         cfg.Local,
		bus:           cfg.Bus,
		replicated:    cfg.Replicated,
		signedLedger:  cfg.SignedLedger,
		relayedLedger: cfg.RelayedLedger,
		inbound:       make(chan HubEvent, inboundQueueSize),
		toSigner:      cfg.ToSigner,
		toRelayer:     cfg.ToRelayer,
		toSignerHB:    cfg.ToSignerHB,
		toSignerSync:  cfg.ToSignerSync,
		toRelayerHB:   cfg.ToRelayerHB,
		toRelayerSync: cfg.ToRelayerSync,
		metrics:       cfg.Metrics,
		ws:            cfg.WS,
		audit:         cfg.Audit,
		shutdown:      cfg.Shutdown,
		log:           logging.Named("peer-worker"),
	}
}

// Inbound returns the send side of the hub's bounded event queue, used
// by Triggers, the Signer/Relayer (to report results), ElectionWorkers
// (to request a sync-info broadcast), and query adapters.
func (w *PeerWorker) Inbound() chan<- HubEvent { return w.inbound }

// Peers is a direct snapshot accessor for query adapters that don't need
// to round-trip through the inbound queue (the queue round-trip exists
// to keep writes single-threaded; reads of already mutex-guarded state
// don't need it).
func (w *PeerWorker) Peers() []peerid.PeerId { return w.replicated.Peers() }

// SignedMessages returns the signed-transaction ledger snapshot.
func (w *PeerWorker) SignedMessages() []solana.Transaction {
	items := w.signedLedger.Snapshot()
	out := make([]solana.Transaction, len(items))
	for i, it := range items {
		out[i] = it.Transaction
	}
	return out
}

// RelayedTransactions returns the relayed-signature ledger snapshot.
func (w *PeerWorker) RelayedTransactions() []string {
	items := w.relayedLedger.Snapshot()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Signature
	}
	return out
}

// Run is the hub's single-threaded event loop.
func (w *PeerWorker) Run(ctx context.Context) error {
	deliveries := w.bus.Deliveries()
	discovery := w.bus.Discovery()

	for {
		select {
		case <-w.shutdown.Done():
			return nil
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.inbound:
			if !ok {
				return fmt.Errorf("actor: peer worker inbound queue closed")
			}
			if err := w.handleHubEvent(ev); err != nil {
				return err
			}

		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("actor: peer bus deliveries channel closed")
			}
			w.handleDelivery(d)

		case ev, ok := <-discovery:
			if !ok {
				return fmt.Errorf("actor: peer bus discovery channel closed")
			}
			w.handleDiscovery(ev)
		}
	}
}

func (w *PeerWorker) handleHubEvent(ev HubEvent) error {
	switch e := ev.(type) {
	case MessageTrigger:
		if w.metrics != nil {
			w.metrics.MessagesTriggered.Inc()
		}
		text := fmt.Sprintf("Message from %s", w.local)
		if err := w.bus.Publish(gossip.TopicMessage, []byte(text)); err != nil {
			w.log.Warn("publish message failed", zap.Error(err))
		}
		return w.sendRawMessage(RawMessage{Bytes: []byte(text)})

	case HeartbeatTrigger:
		if w.metrics != nil {
			w.metrics.HeartbeatsSent.Inc()
		}
		text := fmt.Sprintf("Heartbeat from %s", w.local)
		if err := w.bus.Publish(gossip.TopicHeartbeat, []byte(text)); err != nil {
			w.log.Warn("publish heartbeat failed", zap.Error(err))
		}
		w.pulseHeartbeatFor(w.local)
		return nil

	case SignerSyncInfoEvent:
		return w.publishSyncInfo(gossip.TopicSignerInfo, e.Info)

	case RelayerSyncInfoEvent:
		return w.publishSyncInfo(gossip.TopicRelayerInfo, e.Info)

	case TransactionEvent:
		w.signedLedger.Append(state.SignedArtifact{Transaction: e.Tx})
		if w.metrics != nil {
			w.metrics.TransactionsSigned.Inc()
		}
		if w.ws != nil {
			w.ws.Push(wsapi.EventSignedMessage, e.Tx)
		}
		data, err := json.Marshal(e.Tx)
		if err != nil {
			w.log.Warn("marshal transaction failed", zap.Error(err))
		} else if err := w.bus.Publish(gossip.TopicTransaction, data); err != nil {
			w.log.Warn("publish transaction failed", zap.Error(err))
		}
		select {
		case w.toRelayer <- e:
			return nil
		case <-w.shutdown.Done():
			return nil
		}

	case RelayedTransactionEvent:
		w.relayedLedger.Append(state.RelayedArtifact{Signature: e.Signature})
		if w.metrics != nil {
			w.metrics.TransactionsRelayed.Inc()
		}
		if w.ws != nil {
			w.ws.Push(wsapi.EventRelayedTransfer, e.Signature)
		}
		if w.audit != nil {
			_ = w.audit.Log(audit.Event{Timestamp: time.Now(), Peer: string(w.local), Action: "relayed_transaction", Resource: e.Signature, Success: true})
		}
		if err := w.bus.Publish(gossip.TopicRelayedTransaction, []byte(e.Signature)); err != nil {
			w.log.Warn("publish relayed-transaction failed", zap.Error(err))
		}
		return nil

	case InstructionListPeers:
		e.Reply <- w.replicated.Peers()
		return nil

	case InstructionListSignedMessages:
		e.Reply <- w.SignedMessages()
		return nil

	case InstructionListRelayedTransactions:
		e.Reply <- w.RelayedTransactions()
		return nil

	default:
		w.log.Warn("unhandled hub event", zap.String("type", fmt.Sprintf("%T", ev)))
		return nil
	}
}

func (w *PeerWorker) publishSyncInfo(topic string, info state.LeaderSyncInfo) error {
	data, err := info.Encode()
	if err != nil {
		w.log.Warn("encode sync info failed", zap.Error(err))
		return nil
	}
	if err := w.bus.Publish(topic, data); err != nil {
		w.log.Warn("publish sync info failed", zap.String("topic", topic), zap.Error(err))
	}
	return nil
}

func (w *PeerWorker) sendRawMessage(msg RawMessage) error {
	select {
	case w.toSigner <- msg:
		return nil
	case <-w.shutdown.Done():
		return nil
	}
}

// pulseHeartbeatFor implements spec.md §4.1's heartbeat routing: if
// source equals the current Relayer leader, pulse the Relayer election
// heartbeat channel; if it equals the current Signer leader, pulse the
// Signer channel. Both may fire for the same source.
func (w *PeerWorker) pulseHeartbeatFor(source peerid.PeerId) {
	if source == w.replicated.Relayer() {
		select {
		case w.toRelayerHB <- struct{}{}:
		case <-w.shutdown.Done():
		default:
		}
	}
	if source == w.replicated.Signer() {
		select {
		case w.toSignerHB <- struct{}{}:
		case <-w.shutdown.Done():
		default:
		}
	}
}

func (w *PeerWorker) handleDelivery(d gossip.Delivery) {
	switch d.Topic {
	case gossip.TopicMessage:
		_ = w.sendRawMessage(RawMessage{Bytes: d.Data})

	case gossip.TopicHeartbeat:
		w.pulseHeartbeatFor(d.From)

	case gossip.TopicSignerInfo:
		info, err := state.DecodeLeaderSyncInfo(d.Data)
		if err != nil {
			w.log.Warn("malformed signer-info payload", zap.Error(err))
			return
		}
		select {
		case w.toSignerSync <- info:
		case <-w.shutdown.Done():
		}

	case gossip.TopicRelayerInfo:
		info, err := state.DecodeLeaderSyncInfo(d.Data)
		if err != nil {
			w.log.Warn("malformed relayer-info payload", zap.Error(err))
			return
		}
		select {
		case w.toRelayerSync <- info:
		case <-w.shutdown.Done():
		}

	case gossip.TopicTransaction:
		// Intentionally ignored: SignedArtifact is only appended on the
		// outbound path (spec.md §9.2, Open Question O1).

	case gossip.TopicRelayedTransaction:
		w.relayedLedger.Append(state.RelayedArtifact{Signature: string(d.Data)})

	default:
		w.log.Warn("delivery on unknown topic", zap.String("topic", d.Topic))
	}
}

func (w *PeerWorker) handleDiscovery(ev gossip.DiscoveryEvent) {
	switch ev.Kind {
	case gossip.ConnectionEstablished:
		w.replicated.AddPeer(ev.Peer)
		w.reportPeerCount()
	case gossip.ConnectionClosed:
		w.replicated.RemovePeer(ev.Peer)
		w.reportPeerCount()
	case gossip.Discovered, gossip.Expired:
		// Update the bus's own partial view only; ReplicatedState.peers
		// is mutated only on connection establish/close (spec.md §4.1).
	}
}

func (w *PeerWorker) reportPeerCount() {
	if w.metrics != nil {
		w.metrics.PeerCount.Set(float64(len(w.replicated.Peers())))
	}
}
