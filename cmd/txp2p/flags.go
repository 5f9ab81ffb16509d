package main

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// envOr returns the environment variable's value, or def if unset, the
// same env-then-flag-default precedence original_source's clap `env = `
// attribute gives each argument.
func envOr(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

func envDuration(name string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envInt(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// nodeFlags registers the flags shared by `node` and `server`, seeded
// from TXP2P_-prefixed env vars per spec.md §6.
func nodeFlags(fs *pflag.FlagSet, cfg *nodeConfig) {
	fs.DurationVar(&cfg.messageDuration, "message-duration", envDuration(envMessageDuration, 0),
		"interval between gossiped messages; unset chooses once in [5s,14s]")
	fs.DurationVar(&cfg.relayLeaderDuration, "relay-leader-duration", envDuration(envRelayLeaderDuration, 60*time.Second),
		"Relayer election round interval")
	fs.DurationVar(&cfg.signingLeaderDuration, "signing-leader-duration", envDuration(envSigningLeaderDuration, 60*time.Second),
		"Signer election round interval")
	fs.DurationVar(&cfg.heartbeatDuration, "heartbeat-duration", envDuration(envHeartbeatDuration, time.Second),
		"heartbeat broadcast interval")

	fs.StringVar(&cfg.solanaProgramID, "solana-program-id", envOr(envSolanaProgramID, ""),
		"target Solana program address (required)")
	fs.StringVar(&cfg.solanaRPCURL, "solana-rpc-url", envOr(envSolanaRPCURL, ""),
		"Solana JSON-RPC endpoint (required)")
	fs.StringVar(&cfg.p2pListenAddr, "p2p-listen-addr", envOr(envP2PListenAddr, "/ip4/0.0.0.0/tcp/0"),
		"libp2p listen multiaddr")

	fs.StringVar(&cfg.telegramBotToken, "telegram-bot-token", envOr(envTelegramBotToken, ""),
		"Telegram bot token for rotation/failure alerts (optional)")
	fs.StringVar(&cfg.telegramChatID, "telegram-chat-id", envOr(envTelegramChatID, ""),
		"Telegram chat ID for alerts (optional)")
	fs.StringVar(&cfg.auditDBPath, "audit-db-path", envOr(envAuditDBPath, ""),
		"SQLite path for the leadership/relay audit trail (optional)")
	fs.StringVar(&cfg.auditKeyPath, "audit-key-path", envOr(envAuditKeyPath, ""),
		"HMAC key file for hash-chaining the audit trail (optional; generated on first use)")
}

// apiConfig mirrors original_source's ApiConfig/GrpcConfig/MetricsConfig:
// an address plus a port combined into one socket address.
type apiConfig struct {
	address string
	port    int
}

func (c apiConfig) socketAddress() string {
	return net.JoinHostPort(c.address, strconv.Itoa(c.port))
}

type tlsConfig struct {
	cert string
	key  string
	ca   string
}

func serverFlags(fs *pflag.FlagSet) (api, grpcCfg, metricsCfg *apiConfig, tls *tlsConfig) {
	api = &apiConfig{}
	fs.StringVar(&api.address, "api-address", envOr(envAPIAddress, "::1"), "HTTP API listen address")
	fs.IntVar(&api.port, "api-port", envInt(envAPIPort, 8007), "HTTP API listen port")

	grpcCfg = &apiConfig{}
	fs.StringVar(&grpcCfg.address, "grpc-address", envOr(envGRPCAddress, "::1"), "gRPC listen address")
	fs.IntVar(&grpcCfg.port, "grpc-port", envInt(envGRPCPort, 50051), "gRPC listen port")

	metricsCfg = &apiConfig{}
	fs.StringVar(&metricsCfg.address, "metrics-address", envOr(envMetricsAddress, "::1"), "metrics listen address")
	fs.IntVar(&metricsCfg.port, "metrics-port", envInt(envMetricsPort, 9090), "metrics listen port")

	tls = &tlsConfig{}
	fs.StringVar(&tls.cert, "tls-cert", envOr(envTLSCert, ""), "TLS certificate path (optional)")
	fs.StringVar(&tls.key, "tls-key", envOr(envTLSKey, ""), "TLS key path (optional)")
	fs.StringVar(&tls.ca, "tls-ca", envOr(envTLSCA, ""), "TLS CA path (optional)")

	return api, grpcCfg, metricsCfg, tls
}
