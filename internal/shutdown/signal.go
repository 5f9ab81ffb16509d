// Package shutdown implements the process signal handler from spec.md §5:
// a single broadcast cancellation fanned out to every actor, advancing
// through Initial -> WaitForSignal -> ShuttingDown -> Aborting as repeated
// signals arrive.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

// State is one step of the shutdown state machine.
type State int

const (
	Initial State = iota
	WaitForSignal
	ShuttingDown
	Aborting
)

// forceExitDelay is how long a second signal waits before exiting the
// process outright, per spec.md §5 ("second signal force-exits after
// 200 ms").
const forceExitDelay = 200 * time.Millisecond

// Signal is the cloneable, idempotent cancellation every actor selects
// on alongside its normal inputs. It is a thin wrapper over
// context.Context so actors use the familiar ctx.Done() idiom.
type Signal struct {
	ctx     context.Context
	cancel  context.CancelFunc
	stopped *atomic.Bool
}

// New constructs a Signal not yet fired.
func New() *Signal {
	ctx, cancel := context.WithCancel(context.Background())
	return &Signal{ctx: ctx, cancel: cancel, stopped: &atomic.Bool{}}
}

// Done returns the channel closed when shutdown is requested.
func (s *Signal) Done() <-chan struct{} { return s.ctx.Done() }

// Context exposes the underlying context for passing into library calls
// that accept one directly (PeerBus publish, BlockchainClient requests).
func (s *Signal) Context() context.Context { return s.ctx }

// Fire requests shutdown. Idempotent: firing twice has no additional
// effect beyond the first.
func (s *Signal) Fire() {
	if s.stopped.CompareAndSwap(false, true) {
		s.cancel()
	}
}

// Fired reports whether Fire has been called.
func (s *Signal) Fired() bool { return s.stopped.Load() }

// Handler owns the OS signal subscription and drives the state machine
// across SIGINT/SIGTERM. One per process.
type Handler struct {
	Signal *Signal

	state State
	sigCh chan os.Signal
}

// NewHandler constructs a Handler wired to a fresh Signal and subscribed
// to SIGINT/SIGTERM.
func NewHandler() *Handler {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return &Handler{
		Signal: New(),
		state:  Initial,
		sigCh:  sigCh,
	}
}

// Run blocks, advancing the state machine on each received signal, until
// the process exits. It never returns normally; it calls os.Exit on the
// second and third signal per spec.md §5's exit-code table: first signal
// requests graceful shutdown, second force-exits after 200 ms, third
// aborts immediately.
func (h *Handler) Run() {
	h.state = WaitForSignal

	for {
		<-h.sigCh

		switch h.state {
		case WaitForSignal:
			h.state = ShuttingDown
			h.Signal.Fire()
		case ShuttingDown:
			h.state = Aborting
			time.Sleep(forceExitDelay)
			os.Exit(1)
		default:
			os.Exit(2)
		}
	}
}

// Stop releases the OS signal subscription. Used by tests.
func (h *Handler) Stop() {
	signal.Stop(h.sigCh)
}
