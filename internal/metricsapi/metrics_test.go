package metricsapi

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsAreServedAndCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.MessagesTriggered.Inc()
	m.TransactionsSigned.Add(2)
	m.PeerCount.Set(3)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "txp2p_messages_triggered_total 1") {
		t.Fatalf("expected messages_triggered_total in output:\n%s", body)
	}
	if !strings.Contains(body, "txp2p_transactions_signed_total 2") {
		t.Fatalf("expected transactions_signed_total in output:\n%s", body)
	}
	if !strings.Contains(body, "txp2p_peer_count 3") {
		t.Fatalf("expected peer_count in output:\n%s", body)
	}
}
