package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordConnect("success")
	c.RecordConnect("success")
	c.RecordConnect("user_rejected")
	c.RecordSwitch("added_chain")
	c.RecordBalanceRefresh(false)
	c.ObserveRequest("eth_chainId", 20*time.Millisecond)
	c.SetConnected(true)

	if got := testutil.ToFloat64(c.connectAttempts.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successful connects, got %v", got)
	}
	if got := testutil.ToFloat64(c.balanceRefreshes.WithLabelValues("failure")); got != 1 {
		t.Fatalf("expected 1 failed refresh, got %v", got)
	}
	if got := testutil.ToFloat64(c.sessionsConnected); got != 1 {
		t.Fatalf("expected connected gauge 1, got %v", got)
	}
	if n := testutil.CollectAndCount(c.providerLatency); n != 1 {
		t.Fatalf("expected 1 latency series, got %d", n)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.RecordConnect("success")
	c.RecordSwitch("success")
	c.RecordBalanceRefresh(true)
	c.ObserveRequest("eth_chainId", time.Second)
	c.SetConnected(true)
}
