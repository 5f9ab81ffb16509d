package state

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// SignedArtifact is one transaction this node has observed on the
// transaction topic, recorded in arrival order. Per spec §9.2 this is
// only appended on the outbound path when the local node is the Signer
// leader publishing its own transaction; see elect_next and the actor
// package for where that asymmetry is enforced.
type SignedArtifact struct {
	Transaction solana.Transaction
}

// RelayedArtifact is one signature string observed on the
// relayed-transaction topic, recorded in arrival order.
type RelayedArtifact struct {
	Signature string
}

// Ledger is an append-only, mutex-guarded sequence. Reads return a
// snapshot copy so callers never observe a torn slice.
type Ledger[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewLedger constructs an empty ledger.
func NewLedger[T any]() *Ledger[T] {
	return &Ledger[T]{}
}

// Append adds an item to the end of the sequence.
func (l *Ledger[T]) Append(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
}

// Snapshot returns a copy of the current sequence. Because the ledger is
// append-only, any snapshot is a prefix of every later snapshot
// (spec §8 S6).
func (l *Ledger[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len reports the current length.
func (l *Ledger[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
