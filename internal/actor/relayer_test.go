package actor

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/dplane-collective/solana-tx-p2p/internal/blockchain"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
)

func TestRelayerDropsWhenNotLeader(t *testing.T) {
	r := state.New(peerid.PeerId("local"))
	r.SetRelayer("someone-else")

	fake := blockchain.NewFake(solana.Signature{7})
	inbound := make(chan TransactionEvent, 1)
	hub := make(chan HubEvent, 1)
	sig := shutdown.New()
	defer sig.Fire()

	rl := NewRelayer(RelayerConfig{
		Local:      peerid.PeerId("local"),
		Chain:      fake,
		Replicated: r,
		Inbound:    inbound,
		ToHub:      hub,
		Shutdown:   sig,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rl.Run(ctx)

	inbound <- TransactionEvent{}

	select {
	case ev := <-hub:
		t.Fatalf("expected no relay when not leader, got %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
	if fake.SentCount() != 0 {
		t.Fatalf("expected no submission, got %d", fake.SentCount())
	}
}

func TestRelayerSubmitsAndEmitsSignature(t *testing.T) {
	r := state.New(peerid.PeerId("local"))
	r.SetRelayer("local")

	fake := blockchain.NewFake(solana.Signature{7})
	inbound := make(chan TransactionEvent, 1)
	hub := make(chan HubEvent, 1)
	sig := shutdown.New()
	defer sig.Fire()

	rl := NewRelayer(RelayerConfig{
		Local:      peerid.PeerId("local"),
		Chain:      fake,
		Replicated: r,
		Inbound:    inbound,
		ToHub:      hub,
		Shutdown:   sig,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rl.Run(ctx)

	inbound <- TransactionEvent{Tx: solana.Transaction{}}

	select {
	case ev := <-hub:
		relayed, ok := ev.(RelayedTransactionEvent)
		if !ok {
			t.Fatalf("expected RelayedTransactionEvent, got %T", ev)
		}
		want := solana.Signature{7}.String()
		if relayed.Signature != want {
			t.Fatalf("unexpected signature %q", relayed.Signature)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for relayed event")
	}
	if fake.SentCount() != 1 {
		t.Fatalf("expected exactly 1 submission, got %d", fake.SentCount())
	}
}
