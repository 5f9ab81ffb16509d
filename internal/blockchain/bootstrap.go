package blockchain

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// BootstrapLamports is the one-shot airdrop amount spec.md §6 names: 1 SOL.
const BootstrapLamports = 1_000_000_000

// Bootstrap requests and confirms the startup airdrop to pubkey, mirroring
// the source's create_solana_client behavior.
func Bootstrap(ctx context.Context, client Client, pubkey solana.PublicKey) error {
	sig, err := client.RequestAirdrop(ctx, pubkey, BootstrapLamports)
	if err != nil {
		return fmt.Errorf("blockchain: bootstrap airdrop: %w", err)
	}

	ok, err := client.ConfirmTransaction(ctx, sig)
	if err != nil {
		return fmt.Errorf("blockchain: bootstrap confirm: %w", err)
	}
	if !ok {
		return fmt.Errorf("blockchain: bootstrap airdrop %s not confirmed", sig)
	}

	return nil
}
