// Package metricsapi exposes the /metrics endpoint named in SPEC_FULL.md
// §6: Prometheus counters/gauges for messages triggered, transactions
// signed, transactions relayed, peer count, and leader rotations per role.
package metricsapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every counter/gauge the node runtime updates.
type Metrics struct {
	MessagesTriggered  prometheus.Counter
	HeartbeatsSent     prometheus.Counter
	TransactionsSigned prometheus.Counter
	TransactionsRelayed prometheus.Counter
	PeerCount          prometheus.Gauge
	SignerRotations    prometheus.Counter
	RelayerRotations   prometheus.Counter
}

// New registers and returns the node's metric set against a fresh
// registry, so multiple node instances in the same test binary don't
// collide on the global default registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesTriggered: factory.NewCounter(prometheus.CounterOpts{
			Name: "txp2p_messages_triggered_total",
			Help: "Number of message-trigger ticks processed.",
		}),
		HeartbeatsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "txp2p_heartbeats_sent_total",
			Help: "Number of heartbeat-trigger ticks processed.",
		}),
		TransactionsSigned: factory.NewCounter(prometheus.CounterOpts{
			Name: "txp2p_transactions_signed_total",
			Help: "Number of transactions built by this node as Signer leader.",
		}),
		TransactionsRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "txp2p_transactions_relayed_total",
			Help: "Number of transactions submitted by this node as Relayer leader.",
		}),
		PeerCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txp2p_peer_count",
			Help: "Current size of the local peer view.",
		}),
		SignerRotations: factory.NewCounter(prometheus.CounterOpts{
			Name: "txp2p_signer_rotations_total",
			Help: "Number of times the Signer leader cell has changed.",
		}),
		RelayerRotations: factory.NewCounter(prometheus.CounterOpts{
			Name: "txp2p_relayer_rotations_total",
			Help: "Number of times the Relayer leader cell has changed.",
		}),
	}
}

// Handler returns the promhttp handler serving the registry New was
// called with.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
