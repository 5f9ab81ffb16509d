// Package actor implements the node's six cooperating actors from
// spec.md §4: PeerWorker (hub), ElectionWorker (one per role), Signer,
// Relayer, and the message/heartbeat Triggers. Every actor is a
// long-lived goroutine driven by Run(ctx context.Context), multiplexing
// over its inbound channel(s), any timers, and the shutdown signal.
package actor

import (
	"github.com/gagliardetto/solana-go"

	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
)

// inboundQueueSize is the bounded capacity for each actor's main inbound
// queue, per spec.md §5 ("Inbound queues are bounded (100 events)").
const inboundQueueSize = 100

// triggerQueueSize is the bounded capacity for the periodic trigger
// channels, per spec.md §5 ("trigger channels 10").
const triggerQueueSize = 10

// HubEvent is the sum type PeerWorker's inbound queue carries. Each
// concrete type below corresponds to one of the variants spec.md §4.1
// names; dispatch is by type switch in PeerWorker.Run.
type HubEvent interface{ isHubEvent() }

// MessageTrigger is emitted by the message trigger on each tick.
type MessageTrigger struct{}

func (MessageTrigger) isHubEvent() {}

// HeartbeatTrigger is emitted by the heartbeat trigger on each tick.
type HeartbeatTrigger struct{}

func (HeartbeatTrigger) isHubEvent() {}

// RelayerSyncInfoEvent carries a LeaderSyncInfo the local Relayer
// ElectionWorker wants broadcast.
type RelayerSyncInfoEvent struct{ Info state.LeaderSyncInfo }

func (RelayerSyncInfoEvent) isHubEvent() {}

// SignerSyncInfoEvent mirrors RelayerSyncInfoEvent for the Signer role.
type SignerSyncInfoEvent struct{ Info state.LeaderSyncInfo }

func (SignerSyncInfoEvent) isHubEvent() {}

// TransactionEvent is emitted by the local Signer when it builds a
// transaction.
type TransactionEvent struct{ Tx solana.Transaction }

func (TransactionEvent) isHubEvent() {}

// RelayedTransactionEvent is emitted by the local Relayer after a
// successful submission.
type RelayedTransactionEvent struct{ Signature string }

func (RelayedTransactionEvent) isHubEvent() {}

// InstructionListPeers requests the current peer list snapshot.
type InstructionListPeers struct{ Reply chan<- []peerid.PeerId }

func (InstructionListPeers) isHubEvent() {}

// InstructionListSignedMessages requests the SignedArtifact snapshot.
type InstructionListSignedMessages struct{ Reply chan<- []solana.Transaction }

func (InstructionListSignedMessages) isHubEvent() {}

// InstructionListRelayedTransactions requests the RelayedArtifact
// snapshot.
type InstructionListRelayedTransactions struct{ Reply chan<- []string }

func (InstructionListRelayedTransactions) isHubEvent() {}

// RawMessage is the payload PeerWorker forwards to the Signer queue,
// either from a locally-ticked MessageTrigger or from a message received
// on the message topic.
type RawMessage struct{ Bytes []byte }
