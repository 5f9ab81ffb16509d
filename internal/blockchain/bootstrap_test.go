package blockchain

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestBootstrapSucceeds(t *testing.T) {
	fake := NewFake(solana.Signature{9})
	kp := solana.NewWallet()

	if err := Bootstrap(context.Background(), fake, kp.PublicKey()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if fake.Airdrops != 1 {
		t.Fatalf("expected exactly one airdrop, got %d", fake.Airdrops)
	}
}

func TestBootstrapFailsWhenUnconfirmed(t *testing.T) {
	fake := NewFake(solana.Signature{9})
	fake.ConfirmFail = true
	kp := solana.NewWallet()

	if err := Bootstrap(context.Background(), fake, kp.PublicKey()); err == nil {
		t.Fatalf("expected error when airdrop never confirms")
	}
}
