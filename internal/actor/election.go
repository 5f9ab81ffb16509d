package actor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dplane-collective/solana-tx-p2p/internal/alerts"
	"github.com/dplane-collective/solana-tx-p2p/internal/audit"
	"github.com/dplane-collective/solana-tx-p2p/internal/logging"
	"github.com/dplane-collective/solana-tx-p2p/internal/metricsapi"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
	"github.com/dplane-collective/solana-tx-p2p/internal/wsapi"
)

// Role distinguishes which leader cell an ElectionWorker owns.
type Role int

const (
	RoleSigner Role = iota
	RoleRelayer
)

func (r Role) String() string {
	if r == RoleSigner {
		return "signer"
	}
	return "relayer"
}

// HeartbeatSlack is the fixed slack added to heartbeat_duration to form
// heartbeat_timeout, per spec.md §4.2.
const HeartbeatSlack = 3 * time.Second

// ElectionWorker implements spec.md §4.2: one instance per role, owning
// that role's leader cell, running round-robin rotation driven by a
// heartbeat-timeout timer and a round-deadline timer.
type ElectionWorker struct {
	role  Role
	local peerid.PeerId

	replicated *state.Replicated

	heartbeatTimeout time.Duration
	roundInterval    time.Duration

	heartbeatPulse <-chan struct{}
	syncInfo       <-chan state.LeaderSyncInfo

	toHub    chan<- HubEvent
	shutdown *shutdown.Signal
	log      *zap.Logger

	metrics *metricsapi.Metrics
	ws      *wsapi.Hub
	audit   *audit.Trail
	notify  *alerts.Notifier
}

// ElectionWorkerConfig bundles an ElectionWorker's construction
// parameters.
type ElectionWorkerConfig struct {
	Role             Role
	Local            peerid.PeerId
	Replicated       *state.Replicated
	HeartbeatPulse   <-chan struct{}
	SyncInfo         <-chan state.LeaderSyncInfo
	HeartbeatDuration time.Duration
	RoundInterval    time.Duration
	ToHub            chan<- HubEvent
	Shutdown         *shutdown.Signal

	// Metrics, WS, Audit, and Notify are optional (expansion): nil
	// disables the corresponding side effect.
	Metrics *metricsapi.Metrics
	WS      *wsapi.Hub
	Audit   *audit.Trail
	Notify  *alerts.Notifier
}

// NewElectionWorker constructs an ElectionWorker for one role.
func NewElectionWorker(cfg ElectionWorkerConfig) *ElectionWorker {
	return &ElectionWorker{
		role:             cfg.Role,
		local:            cfg.Local,
		replicated:       cfg.Replicated,
		heartbeatTimeout: cfg.HeartbeatDuration + HeartbeatSlack,
		roundInterval:    cfg.RoundInterval,
		heartbeatPulse:   cfg.HeartbeatPulse,
		syncInfo:         cfg.SyncInfo,
		toHub:            cfg.ToHub,
		shutdown:         cfg.Shutdown,
		log:              logging.Named("election-" + cfg.Role.String()),
		metrics:          cfg.Metrics,
		ws:               cfg.WS,
		audit:            cfg.Audit,
		notify:           cfg.Notify,
	}
}

func (e *ElectionWorker) currentLeader() peerid.PeerId {
	if e.role == RoleSigner {
		return e.replicated.Signer()
	}
	return e.replicated.Relayer()
}

func (e *ElectionWorker) setLeader(id peerid.PeerId) {
	if e.role == RoleSigner {
		e.replicated.SetSigner(id)
	} else {
		e.replicated.SetRelayer(id)
	}
}

// Run drives the election state machine described in spec.md §4.2.
func (e *ElectionWorker) Run(ctx context.Context) error {
	heartbeatTimer := time.NewTimer(e.heartbeatTimeout)
	defer heartbeatTimer.Stop()

	roundTimer := time.NewTimer(e.roundInterval)
	defer roundTimer.Stop()

	for {
		select {
		case <-e.shutdown.Done():
			return nil
		case <-ctx.Done():
			return nil

		case <-e.heartbeatPulse:
			e.log.Debug("leader alive")
			resetTimer(heartbeatTimer, e.heartbeatTimeout)

		case <-heartbeatTimer.C:
			if err := e.electNext(); err != nil {
				return err
			}
			resetTimer(heartbeatTimer, e.heartbeatTimeout)
			resetTimer(roundTimer, e.roundInterval)

		case <-roundTimer.C:
			if err := e.electNext(); err != nil {
				return err
			}
			resetTimer(heartbeatTimer, e.heartbeatTimeout)
			resetTimer(roundTimer, e.roundInterval)

		case info, ok := <-e.syncInfo:
			if !ok {
				return nil
			}
			e.setLeader(info.Leader)
			delay := time.Until(info.NextRoundTime)
			if delay < 0 {
				delay = 0
			}
			resetTimer(roundTimer, delay)
		}
	}
}

// electNext implements spec.md §4.2's elect_next: rotate to the next
// peer after the current leader (or peers[0] if not found), write it
// into the role cell, and emit a sync-info broadcast to the hub.
func (e *ElectionWorker) electNext() error {
	peers := e.replicated.Peers()
	previous := e.currentLeader()
	next := state.ElectNext(peers, previous)
	e.setLeader(next)
	e.reportRotation(previous, next)

	info := state.LeaderSyncInfo{
		Leader:        next,
		NextRoundTime: time.Now().UTC().Add(e.roundInterval),
	}

	ev := HubEvent(SignerSyncInfoEvent{Info: info})
	if e.role == RoleRelayer {
		ev = RelayerSyncInfoEvent{Info: info}
	}

	select {
	case e.toHub <- ev:
		return nil
	case <-e.shutdown.Done():
		return nil
	}
}

func (e *ElectionWorker) reportRotation(previous, next peerid.PeerId) {
	if previous == next {
		return
	}

	action := "signer_rotation"
	wsEvent := wsapi.EventSignerChanged
	if e.role == RoleRelayer {
		action = "relayer_rotation"
		wsEvent = wsapi.EventRelayerChanged
	}

	if e.metrics != nil {
		if e.role == RoleSigner {
			e.metrics.SignerRotations.Inc()
		} else {
			e.metrics.RelayerRotations.Inc()
		}
	}
	if e.ws != nil {
		e.ws.Push(wsEvent, map[string]string{"leader": string(next)})
	}
	if e.audit != nil {
		_ = e.audit.Log(audit.Event{Timestamp: time.Now(), Peer: string(next), Action: action, Resource: string(previous), Success: true})
	}
	if e.notify != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.notify.Notify(ctx, alerts.Alert{
			Level:   alerts.LevelInfo,
			Title:   e.role.String() + " rotated",
			Message: "new leader elected",
			Details: map[string]string{"leader": string(next), "previous": string(previous)},
		})
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
