package actor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dplane-collective/solana-tx-p2p/internal/alerts"
	"github.com/dplane-collective/solana-tx-p2p/internal/blockchain"
	"github.com/dplane-collective/solana-tx-p2p/internal/logging"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
)

// Relayer implements spec.md §4.4: when the local node is the Relayer
// leader, it submits observed transactions to BlockchainClient.
type Relayer struct {
	local peerid.PeerId
	chain blockchain.Client

	replicated *state.Replicated

	inbound  <-chan TransactionEvent
	toHub    chan<- HubEvent
	shutdown *shutdown.Signal
	log      *zap.Logger

	notify *alerts.Notifier
}

// RelayerConfig bundles a Relayer's construction parameters.
type RelayerConfig struct {
	Local      peerid.PeerId
	Chain      blockchain.Client
	Replicated *state.Replicated
	Inbound    <-chan TransactionEvent
	ToHub      chan<- HubEvent
	Shutdown   *shutdown.Signal

	// Notify is optional (expansion): nil disables failure alerts.
	Notify *alerts.Notifier
}

// NewRelayer constructs a Relayer.
func NewRelayer(cfg RelayerConfig) *Relayer {
	return &Relayer{
		local:      cfg.Local,
		chain:      cfg.Chain,
		replicated: cfg.Replicated,
		inbound:    cfg.Inbound,
		toHub:      cfg.ToHub,
		shutdown:   cfg.Shutdown,
		log:        logging.Named("relayer"),
		notify:     cfg.Notify,
	}
}

// Run implements spec.md §4.4's on-Transaction handling.
func (r *Relayer) Run(ctx context.Context) error {
	for {
		select {
		case <-r.shutdown.Done():
			return nil
		case <-ctx.Done():
			return nil

		case ev, ok := <-r.inbound:
			if !ok {
				return fmt.Errorf("actor: relayer inbound queue closed")
			}
			if err := r.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (r *Relayer) handle(ctx context.Context, ev TransactionEvent) error {
	if r.replicated.Relayer() != r.local {
		return nil
	}

	tx := ev.Tx
	sig, err := r.chain.SendAndConfirmTransaction(ctx, &tx)
	if err != nil {
		r.log.Warn("submit transaction failed", zap.Error(err))
		if r.notify != nil {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = r.notify.Notify(notifyCtx, alerts.Alert{
				Level:   alerts.LevelCritical,
				Title:   "relay failed",
				Message: err.Error(),
				Details: map[string]string{"relayer": string(r.local)},
			})
		}
		return nil
	}

	select {
	case r.toHub <- RelayedTransactionEvent{Signature: sig.String()}:
		return nil
	case <-r.shutdown.Done():
		return nil
	}
}
