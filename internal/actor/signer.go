package actor

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dplane-collective/solana-tx-p2p/internal/blockchain"
	"github.com/dplane-collective/solana-tx-p2p/internal/logging"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
)

// Signer implements spec.md §4.3: when the local node is the Signer
// leader, it wraps an observed plaintext message into a signed
// transaction targeting the configured program address.
type Signer struct {
	local     peerid.PeerId
	keypair   solana.PrivateKey
	programID solana.PublicKey
	chain     blockchain.Client

	replicated *state.Replicated

	inbound  <-chan RawMessage
	toHub    chan<- HubEvent
	shutdown *shutdown.Signal
	log      *zap.Logger
}

// SignerConfig bundles a Signer's construction parameters.
type SignerConfig struct {
	Local      peerid.PeerId
	Keypair    solana.PrivateKey
	ProgramID  solana.PublicKey
	Chain      blockchain.Client
	Replicated *state.Replicated
	Inbound    <-chan RawMessage
	ToHub      chan<- HubEvent
	Shutdown   *shutdown.Signal
}

// NewSigner constructs a Signer.
func NewSigner(cfg SignerConfig) *Signer {
	return &Signer{
		local:      cfg.Local,
		keypair:    cfg.Keypair,
		programID:  cfg.ProgramID,
		chain:      cfg.Chain,
		replicated: cfg.Replicated,
		inbound:    cfg.Inbound,
		toHub:      cfg.ToHub,
		shutdown:   cfg.Shutdown,
		log:        logging.Named("signer"),
	}
}

// Run implements spec.md §4.3's on-RawMessage handling.
func (s *Signer) Run(ctx context.Context) error {
	for {
		select {
		case <-s.shutdown.Done():
			return nil
		case <-ctx.Done():
			return nil

		case msg, ok := <-s.inbound:
			if !ok {
				return fmt.Errorf("actor: signer inbound queue closed")
			}
			if err := s.handle(ctx, msg); err != nil {
				return err
			}
		}
	}
}

func (s *Signer) handle(ctx context.Context, msg RawMessage) error {
	if s.replicated.Signer() != s.local {
		return nil
	}

	payload := fmt.Sprintf("%s, Signer: %s", string(msg.Bytes), s.local)

	blockhash, err := s.chain.GetLatestBlockhash(ctx)
	if err != nil {
		s.log.Warn("get latest blockhash failed, dropping tick", zap.Error(err))
		return nil
	}

	payer := s.keypair.PublicKey()
	instr := solana.NewInstruction(s.programID, solana.AccountMetaSlice{}, []byte(payload))

	tx, err := solana.NewTransaction([]solana.Instruction{instr}, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		s.log.Warn("build transaction failed", zap.Error(err))
		return nil
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &s.keypair
		}
		return nil
	}); err != nil {
		s.log.Warn("sign transaction failed", zap.Error(err))
		return nil
	}

	select {
	case s.toHub <- TransactionEvent{Tx: *tx}:
		return nil
	case <-s.shutdown.Done():
		return nil
	}
}
