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

func TestSignerDropsWhenNotLeader(t *testing.T) {
	r := state.New(peerid.PeerId("local"))
	r.SetSigner("someone-else")

	wallet := solana.NewWallet()
	fake := blockchain.NewFake(solana.Signature{1})
	inbound := make(chan RawMessage, 1)
	hub := make(chan HubEvent, 1)
	sig := shutdown.New()
	defer sig.Fire()

	s := NewSigner(SignerConfig{
		Local:      peerid.PeerId("local"),
		Keypair:    wallet.PrivateKey,
		ProgramID:  solana.NewWallet().PublicKey(),
		Chain:      fake,
		Replicated: r,
		Inbound:    inbound,
		ToHub:      hub,
		Shutdown:   sig,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	inbound <- RawMessage{Bytes: []byte("hello")}

	select {
	case ev := <-hub:
		t.Fatalf("expected no transaction emitted, got %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSignerBuildsExpectedPayload(t *testing.T) {
	wallet := solana.NewWallet()
	local := peerid.PeerId(wallet.PublicKey().String())

	r := state.New(local)
	r.SetSigner(local)

	fake := blockchain.NewFake(solana.Signature{1})
	inbound := make(chan RawMessage, 1)
	hub := make(chan HubEvent, 1)
	sig := shutdown.New()
	defer sig.Fire()

	s := NewSigner(SignerConfig{
		Local:      local,
		Keypair:    wallet.PrivateKey,
		ProgramID:  solana.NewWallet().PublicKey(),
		Chain:      fake,
		Replicated: r,
		Inbound:    inbound,
		ToHub:      hub,
		Shutdown:   sig,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	inbound <- RawMessage{Bytes: []byte("hello")}

	select {
	case ev := <-hub:
		txEv, ok := ev.(TransactionEvent)
		if !ok {
			t.Fatalf("expected TransactionEvent, got %T", ev)
		}
		want := "hello, Signer: " + local.String()
		got := string(txEv.Tx.Message.Instructions[0].Data)
		if got != want {
			t.Fatalf("expected payload %q, got %q", want, got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for transaction")
	}
}
