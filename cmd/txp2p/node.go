package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dplane-collective/solana-tx-p2p/internal/actor"
	"github.com/dplane-collective/solana-tx-p2p/internal/alerts"
	"github.com/dplane-collective/solana-tx-p2p/internal/audit"
	"github.com/dplane-collective/solana-tx-p2p/internal/blockchain"
	"github.com/dplane-collective/solana-tx-p2p/internal/gossip"
	"github.com/dplane-collective/solana-tx-p2p/internal/logging"
	"github.com/dplane-collective/solana-tx-p2p/internal/metricsapi"
	"github.com/dplane-collective/solana-tx-p2p/internal/peerid"
	"github.com/dplane-collective/solana-tx-p2p/internal/query"
	"github.com/dplane-collective/solana-tx-p2p/internal/shutdown"
	"github.com/dplane-collective/solana-tx-p2p/internal/state"
	"github.com/dplane-collective/solana-tx-p2p/internal/wsapi"
	"github.com/prometheus/client_golang/prometheus"
)

// nodeConfig collects every node-level flag shared by `node` and `server`.
type nodeConfig struct {
	messageDuration       time.Duration // zero means "choose randomly once"
	relayLeaderDuration   time.Duration
	signingLeaderDuration time.Duration
	heartbeatDuration     time.Duration

	solanaProgramID string
	solanaRPCURL    string
	p2pListenAddr   string

	telegramBotToken string
	telegramChatID   string
	auditDBPath      string
	auditKeyPath     string
}

// node bundles the running actors and collaborators so server.go can add
// read surfaces (HTTP/gRPC/metrics/websocket) around the same instance.
type node struct {
	local      peerid.PeerId
	hub        *actor.PeerWorker
	bus        gossip.Bus
	chain      blockchain.Client
	replicated *state.Replicated
	metricsReg *prometheus.Registry
	metrics    *metricsapi.Metrics
	ws         *wsapi.Hub
	shutdown   *shutdown.Handler
	log        *zap.Logger

	runners []func(context.Context) error
}

// buildNode wires every actor in SPEC_FULL.md §2/§4, following Design Note
// 9.3: construct every channel first, pass handles into each actor, then
// spawn nothing until the caller decides to (node vs server differ only in
// which extra read surfaces get started around the same node).
func buildNode(ctx context.Context, cfg nodeConfig) (*node, error) {
	log := logging.Named("node")

	programID, err := solana.PublicKeyFromBase58(cfg.solanaProgramID)
	if err != nil {
		return nil, fmt.Errorf("txp2p: invalid %s: %w", envSolanaProgramID, err)
	}

	kp := peerid.Generate()
	log.Info("generated bootstrap identity", zap.String("peer_id", string(kp.ID)))

	chain := blockchain.NewRPCClient(cfg.solanaRPCURL)
	if err := blockchain.Bootstrap(ctx, chain, kp.Solana.PublicKey()); err != nil {
		return nil, fmt.Errorf("txp2p: bootstrap airdrop: %w", err)
	}

	bus, err := gossip.NewLibp2pBus(cfg.p2pListenAddr, kp.Libp2pPriv)
	if err != nil {
		return nil, fmt.Errorf("txp2p: start p2p bus: %w", err)
	}

	replicated := state.New(kp.ID)
	signedLedger := state.NewLedger[state.SignedArtifact]()
	relayedLedger := state.NewLedger[state.RelayedArtifact]()

	handler := shutdown.NewHandler()
	sig := handler.Signal

	reg := prometheus.NewRegistry()
	metrics := metricsapi.New(reg)

	ws := wsapi.NewHub()

	var notifier *alerts.Notifier
	if cfg.telegramBotToken != "" {
		notifier = alerts.NewNotifier(cfg.telegramBotToken, cfg.telegramChatID)
	}

	var trail *audit.Trail
	if cfg.auditDBPath != "" {
		db, err := sql.Open("sqlite3", cfg.auditDBPath)
		if err != nil {
			return nil, fmt.Errorf("txp2p: open audit db: %w", err)
		}
		if err := audit.EnsureSchema(db); err != nil {
			return nil, fmt.Errorf("txp2p: audit schema: %w", err)
		}
		var hmacKey []byte
		if cfg.auditKeyPath != "" {
			hmacKey, err = audit.LoadOrCreateAuditKey(cfg.auditKeyPath)
			if err != nil {
				return nil, fmt.Errorf("txp2p: audit key: %w", err)
			}
		}
		trail = audit.NewTrail(db, 50, 5*time.Second, hmacKey)
		trail.Start()
	}

	toSigner := make(chan actor.RawMessage, 10)
	toRelayer := make(chan actor.TransactionEvent, 10)
	toSignerHB := make(chan struct{}, 1)
	toRelayerHB := make(chan struct{}, 1)
	toSignerSync := make(chan state.LeaderSyncInfo, 1)
	toRelayerSync := make(chan state.LeaderSyncInfo, 1)

	hub := actor.NewPeerWorker(actor.PeerWorkerConfig{
		Local:         kp.ID,
		Bus:           bus,
		Replicated:    replicated,
		SignedLedger:  signedLedger,
		RelayedLedger: relayedLedger,
		ToSigner:      toSigner,
		ToRelayer:     toRelayer,
		ToSignerHB:    toSignerHB,
		ToSignerSync:  toSignerSync,
		ToRelayerHB:   toRelayerHB,
		ToRelayerSync: toRelayerSync,
		Metrics:       metrics,
		WS:            ws,
		Audit:         trail,
		Shutdown:      sig,
	})

	signerElection := actor.NewElectionWorker(actor.ElectionWorkerConfig{
		Role:              actor.RoleSigner,
		Local:             kp.ID,
		Replicated:        replicated,
		HeartbeatPulse:    toSignerHB,
		SyncInfo:          toSignerSync,
		HeartbeatDuration: cfg.heartbeatDuration,
		RoundInterval:     cfg.signingLeaderDuration,
		ToHub:             hub.Inbound(),
		Metrics:           metrics,
		WS:                ws,
		Audit:             trail,
		Notify:            notifier,
		Shutdown:          sig,
	})

	relayerElection := actor.NewElectionWorker(actor.ElectionWorkerConfig{
		Role:              actor.RoleRelayer,
		Local:             kp.ID,
		Replicated:        replicated,
		HeartbeatPulse:    toRelayerHB,
		SyncInfo:          toRelayerSync,
		HeartbeatDuration: cfg.heartbeatDuration,
		RoundInterval:     cfg.relayLeaderDuration,
		ToHub:             hub.Inbound(),
		Metrics:           metrics,
		WS:                ws,
		Audit:             trail,
		Notify:            notifier,
		Shutdown:          sig,
	})

	signer := actor.NewSigner(actor.SignerConfig{
		Local:      kp.ID,
		Keypair:    kp.Solana,
		ProgramID:  programID,
		Chain:      chain,
		Replicated: replicated,
		Inbound:    toSigner,
		ToHub:      hub.Inbound(),
		Shutdown:   sig,
	})

	relayer := actor.NewRelayer(actor.RelayerConfig{
		Local:      kp.ID,
		Chain:      chain,
		Replicated: replicated,
		Inbound:    toRelayer,
		ToHub:      hub.Inbound(),
		Notify:     notifier,
		Shutdown:   sig,
	})

	messageDuration := cfg.messageDuration
	if messageDuration == 0 {
		messageDuration = actor.RandomMessageDuration()
	}

	n := &node{
		local:      kp.ID,
		hub:        hub,
		bus:        bus,
		chain:      chain,
		replicated: replicated,
		metricsReg: reg,
		metrics:    metrics,
		ws:         ws,
		shutdown:   handler,
		log:        log,
		runners: []func(context.Context) error{
			hub.Run,
			signerElection.Run,
			relayerElection.Run,
			signer.Run,
			relayer.Run,
			func(ctx context.Context) error {
				actor.MessageTriggerLoop(ctx, hub.Inbound(), messageDuration, sig)
				return nil
			},
			func(ctx context.Context) error {
				actor.HeartbeatTriggerLoop(ctx, hub.Inbound(), cfg.heartbeatDuration, sig)
				return nil
			},
		},
	}
	return n, nil
}

// run spawns every actor goroutine, starts a stdin reader implementing
// spec.md §6's grammar, and blocks until the shutdown handler fires.
func (n *node) run(ctx context.Context) error {
	go n.shutdown.Run()
	go n.stdinLoop(ctx)
	go n.ws.Run()

	errs := make(chan error, len(n.runners))
	for _, r := range n.runners {
		r := r
		go func() { errs <- r(ctx) }()
	}

	for range n.runners {
		if err := <-errs; err != nil {
			n.log.Error("actor exited with error", zap.Error(err))
		}
	}
	return nil
}

// stdinLoop implements the `ls p` / `ls sm` / `ls tx` / `get tx <sig>`
// grammar from spec.md §6, querying the node's own hub directly rather
// than round-tripping through query.PeerService's HTTP/gRPC framing.
func (n *node) stdinLoop(ctx context.Context) {
	svc := query.NewDefaultPeerService(n.hub.Inbound(), n.chain)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch {
		case line == "ls p":
			peers, err := svc.ListPeers(ctx)
			n.printResult(peers, err)
		case line == "ls sm":
			txs, err := svc.ListSignedMessages(ctx)
			n.printResult(txs, err)
		case line == "ls tx":
			sigs, err := svc.ListRelayedTransactions(ctx)
			n.printResult(sigs, err)
		case len(fields) == 3 && fields[0] == "get" && fields[1] == "tx":
			detail, err := svc.GetTransaction(ctx, fields[2])
			n.printResult(detail, err)
		default:
			n.log.Warn("unrecognized stdin command", zap.String("line", line))
		}
	}
}

func (n *node) printResult(v interface{}, err error) {
	if err != nil {
		n.log.Warn("stdin query failed", zap.Error(err))
		return
	}
	fmt.Printf("%+v\n", v)
}
