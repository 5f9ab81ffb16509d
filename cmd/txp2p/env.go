package main

// Environment variable names, prefixed TXP2P_ per spec.md §6, mirroring
// original_source/tx-p2p/src/bin/env.rs's prefixed constant block.
const (
	envMessageDuration       = "TXP2P_MESSAGE_DURATION"
	envRelayLeaderDuration   = "TXP2P_RELAY_LEADER_DURATION"
	envSigningLeaderDuration = "TXP2P_SIGNING_LEADER_DURATION"
	envHeartbeatDuration     = "TXP2P_HEARTBEAT_DURATION"

	envSolanaProgramID = "TXP2P_SOLANA_PROGRAM_ID"
	envSolanaRPCURL    = "TXP2P_SOLANA_RPC_URL"
	envP2PListenAddr   = "TXP2P_P2P_LISTEN_ADDR"

	envAPIAddress = "TXP2P_API_ADDRESS"
	envAPIPort    = "TXP2P_API_PORT"

	envGRPCAddress = "TXP2P_GRPC_ADDRESS"
	envGRPCPort    = "TXP2P_GRPC_PORT"

	envMetricsAddress = "TXP2P_METRICS_ADDRESS"
	envMetricsPort    = "TXP2P_METRICS_PORT"

	envTLSCert = "TXP2P_TLS_CERT"
	envTLSKey  = "TXP2P_TLS_KEY"
	envTLSCA   = "TXP2P_TLS_CA"

	envTelegramBotToken = "TXP2P_TELEGRAM_BOT_TOKEN"
	envTelegramChatID   = "TXP2P_TELEGRAM_CHAT_ID"
	envAuditDBPath      = "TXP2P_AUDIT_DB_PATH"
	envAuditKeyPath     = "TXP2P_AUDIT_KEY_PATH"
)
