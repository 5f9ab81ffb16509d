package state

import "testing"

func TestLedgerAppendAndSnapshotIsPrefix(t *testing.T) {
	l := NewLedger[string]()

	l.Append("a")
	first := l.Snapshot()

	l.Append("b")
	second := l.Snapshot()

	if len(first) != 1 || first[0] != "a" {
		t.Fatalf("expected [a], got %v", first)
	}
	if len(second) != 2 || second[0] != "a" || second[1] != "b" {
		t.Fatalf("expected [a b], got %v", second)
	}
}

func TestLedgerSnapshotIsIndependentCopy(t *testing.T) {
	l := NewLedger[string]()
	l.Append("a")

	snap := l.Snapshot()
	snap[0] = "mutated"

	if got := l.Snapshot(); got[0] != "a" {
		t.Fatalf("ledger internal state mutated via snapshot: %v", got)
	}
}

func TestLedgerLen(t *testing.T) {
	l := NewLedger[int]()
	if l.Len() != 0 {
		t.Fatalf("expected 0, got %d", l.Len())
	}
	l.Append(1)
	l.Append(2)
	if l.Len() != 2 {
		t.Fatalf("expected 2, got %d", l.Len())
	}
}
