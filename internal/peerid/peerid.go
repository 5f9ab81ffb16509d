// Package peerid derives the node's gossip identity and on-chain account
// identity from a single Ed25519 keypair generated once at process start.
package peerid

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/gagliardetto/solana-go"
	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
)

// PeerId is the stable identity of a node for the lifetime of the process.
// It is the base58 encoding of the node's Ed25519 public key, which is also
// that node's Solana account address.
type PeerId string

// Sentinel is the placeholder leader value before the first election.
const Sentinel PeerId = "<none>"

func (p PeerId) String() string { return string(p) }

// Keypair bundles the bootstrap identity in the three forms the node needs:
// the logical PeerId, the Solana signer, and the libp2p transport identity.
type Keypair struct {
	ID          PeerId
	Private     ed25519.PrivateKey
	Solana      solana.PrivateKey
	Libp2pPriv  libp2pcrypto.PrivKey
}

// Generate creates a new bootstrap keypair. It panics only on the
// unreachable case of the system CSPRNG failing.
func Generate() *Keypair {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(fmt.Sprintf("peerid: generate ed25519 key: %v", err))
	}

	id := PeerId(solana.PublicKeyFromBytes(pub).String())

	solanaKey := solana.PrivateKey(priv)

	libp2pPriv, err := libp2pcrypto.UnmarshalEd25519PrivateKey(priv)
	if err != nil {
		panic(fmt.Sprintf("peerid: convert to libp2p key: %v", err))
	}

	return &Keypair{
		ID:         id,
		Private:    priv,
		Solana:     solanaKey,
		Libp2pPriv: libp2pPriv,
	}
}

// FromPrivateKey rebuilds a Keypair from raw Ed25519 private key bytes.
// Used by tests to construct deterministic identities.
func FromPrivateKey(priv ed25519.PrivateKey) (*Keypair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("peerid: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}

	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("peerid: unexpected public key type")
	}

	id := PeerId(solana.PublicKeyFromBytes(pub).String())
	solanaKey := solana.PrivateKey(priv)

	libp2pPriv, err := libp2pcrypto.UnmarshalEd25519PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("peerid: convert to libp2p key: %w", err)
	}

	return &Keypair{ID: id, Private: priv, Solana: solanaKey, Libp2pPriv: libp2pPriv}, nil
}

// ToPublicKey converts a PeerId back into the on-chain public key it was
// derived from. It is the inverse of Generate's PeerId construction, so
// ToPublicKey(kp.ID) == kp.Solana.PublicKey() for every Keypair kp.
func ToPublicKey(id PeerId) (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(string(id))
}
