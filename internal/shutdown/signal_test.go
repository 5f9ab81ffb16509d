package shutdown

import (
	"testing"
	"time"
)

func TestFireClosesDone(t *testing.T) {
	s := New()

	select {
	case <-s.Done():
		t.Fatalf("expected Done to be open before Fire")
	default:
	}

	s.Fire()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected Done to be closed after Fire")
	}
}

func TestFireIsIdempotent(t *testing.T) {
	s := New()

	s.Fire()
	s.Fire() // must not panic on double-close

	if !s.Fired() {
		t.Fatalf("expected Fired() true")
	}
}
