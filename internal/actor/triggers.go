package actor

import (
	"context"
	"math/rand"
	"time"

	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
)

// messageDurationMin and messageDurationMax bound the once-at-startup
// random message interval chosen when MessageDuration is unset, per
// spec.md §4.5.
const (
	messageDurationMin = 5 * time.Second
	messageDurationMax = 14 * time.Second
)

// RandomMessageDuration picks a uniformly random interval in
// [5s, 14s], inclusive, matching spec.md's boundary behavior
// ("message_duration unset: chosen once in [5s, 14s] and stable
// thereafter"). Call once per process and reuse the result.
func RandomMessageDuration() time.Duration {
	span := int64(messageDurationMax-messageDurationMin) / int64(time.Second)
	return messageDurationMin + time.Duration(rand.Int63n(span+1))*time.Second
}

// MessageTriggerLoop emits MessageTrigger onto hub on every tick of
// interval, stopping on shutdown or when hub is no longer receiving.
func MessageTriggerLoop(ctx context.Context, hub chan<- HubEvent, interval time.Duration, sig *shutdown.Signal) {
	runTicker(ctx, hub, interval, sig, MessageTrigger{})
}

// HeartbeatTriggerLoop emits HeartbeatTrigger onto hub on every tick of
// interval.
func HeartbeatTriggerLoop(ctx context.Context, hub chan<- HubEvent, interval time.Duration, sig *shutdown.Signal) {
	runTicker(ctx, hub, interval, sig, HeartbeatTrigger{})
}

func runTicker(ctx context.Context, hub chan<- HubEvent, interval time.Duration, sig *shutdown.Signal, ev HubEvent) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sig.Done():
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case hub <- ev:
			case <-sig.Done():
				return
			case <-ctx.Done():
				return
			}
		}
	}
}
