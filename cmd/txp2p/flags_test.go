package main

import (
	"testing"
	"time"
)

func TestEnvOrFallsBackToDefault(t *testing.T) {
	if got := envOr("TXP2P_TEST_UNSET_STRING", "fallback"); got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}

	t.Setenv("TXP2P_TEST_SET_STRING", "value")
	if got := envOr("TXP2P_TEST_SET_STRING", "fallback"); got != "value" {
		t.Fatalf("got %q, want value", got)
	}
}

func TestEnvDurationParsesOrFallsBack(t *testing.T) {
	if got := envDuration("TXP2P_TEST_UNSET_DURATION", 5*time.Second); got != 5*time.Second {
		t.Fatalf("got %s, want 5s", got)
	}

	t.Setenv("TXP2P_TEST_SET_DURATION", "250ms")
	if got := envDuration("TXP2P_TEST_SET_DURATION", 5*time.Second); got != 250*time.Millisecond {
		t.Fatalf("got %s, want 250ms", got)
	}

	t.Setenv("TXP2P_TEST_BAD_DURATION", "not-a-duration")
	if got := envDuration("TXP2P_TEST_BAD_DURATION", 5*time.Second); got != 5*time.Second {
		t.Fatalf("got %s, want fallback 5s on parse error", got)
	}
}

func TestEnvIntParsesOrFallsBack(t *testing.T) {
	if got := envInt("TXP2P_TEST_UNSET_INT", 8007); got != 8007 {
		t.Fatalf("got %d, want 8007", got)
	}

	t.Setenv("TXP2P_TEST_SET_INT", "9090")
	if got := envInt("TXP2P_TEST_SET_INT", 8007); got != 9090 {
		t.Fatalf("got %d, want 9090", got)
	}

	t.Setenv("TXP2P_TEST_BAD_INT", "not-an-int")
	if got := envInt("TXP2P_TEST_BAD_INT", 8007); got != 8007 {
		t.Fatalf("got %d, want fallback 8007 on parse error", got)
	}
}

func TestAPIConfigSocketAddress(t *testing.T) {
	cases := []struct {
		cfg  apiConfig
		want string
	}{
		{apiConfig{address: "::1", port: 8007}, "[::1]:8007"},
		{apiConfig{address: "0.0.0.0", port: 50051}, "0.0.0.0:50051"},
	}

	for _, c := range cases {
		if got := c.cfg.socketAddress(); got != c.want {
			t.Fatalf("socketAddress() = %q, want %q", got, c.want)
		}
	}
}
