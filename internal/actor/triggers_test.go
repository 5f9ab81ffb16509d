package actor

import (
	"context"
	"testing"
	"time"

	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
)

func TestRandomMessageDurationWithinBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := RandomMessageDuration()
		if d < messageDurationMin || d > messageDurationMax {
			t.Fatalf("duration %s out of [%s, %s]", d, messageDurationMin, messageDurationMax)
		}
	}
}

func TestHeartbeatTriggerLoopTicks(t *testing.T) {
	hub := make(chan HubEvent, triggerQueueSize)
	sig := shutdown.New()
	defer sig.Fire()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go HeartbeatTriggerLoop(ctx, hub, 10*time.Millisecond, sig)

	select {
	case ev := <-hub:
		if _, ok := ev.(HeartbeatTrigger); !ok {
			t.Fatalf("expected HeartbeatTrigger, got %T", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for heartbeat tick")
	}
}

func TestMessageTriggerLoopStopsOnShutdown(t *testing.T) {
	hub := make(chan HubEvent)
	sig := shutdown.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		MessageTriggerLoop(ctx, hub, time.Millisecond, sig)
		close(done)
	}()

	sig.Fire()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected trigger loop to exit promptly on shutdown")
	}
}
