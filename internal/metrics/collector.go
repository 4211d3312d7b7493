package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records wallet session metrics with Prometheus.
// A nil *Collector is valid and records nothing.
type Collector struct {
	connectAttempts   *prometheus.CounterVec
	switchAttempts    *prometheus.CounterVec
	providerLatency   *prometheus.HistogramVec
	balanceRefreshes  *prometheus.CounterVec
	sessionsConnected prometheus.Gauge
}

// NewCollector registers the collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		connectAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_connect_attempts_total",
				Help: "Total number of wallet connect attempts by outcome",
			},
			[]string{"outcome"},
		),
		switchAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_network_switch_attempts_total",
				Help: "Total number of network switch requests by outcome",
			},
			[]string{"outcome"},
		),
		providerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_provider_request_duration_seconds",
				Help:    "Provider request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
			},
			[]string{"method"},
		),
		balanceRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_balance_refreshes_total",
				Help: "Total number of background balance refreshes by outcome",
			},
			[]string{"outcome"},
		),
		sessionsConnected: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallet_session_connected",
				Help: "1 while a wallet session is connected",
			},
		),
	}
}

// RecordConnect counts a connect attempt.
func (c *Collector) RecordConnect(outcome string) {
	if c == nil {
		return
	}
	c.connectAttempts.WithLabelValues(outcome).Inc()
}

// RecordSwitch counts a network switch request.
func (c *Collector) RecordSwitch(outcome string) {
	if c == nil {
		return
	}
	c.switchAttempts.WithLabelValues(outcome).Inc()
}

// ObserveRequest records how long a provider method took.
func (c *Collector) ObserveRequest(method string, d time.Duration) {
	if c == nil {
		return
	}
	c.providerLatency.WithLabelValues(method).Observe(d.Seconds())
}

// RecordBalanceRefresh counts a background refresh.
func (c *Collector) RecordBalanceRefresh(ok bool) {
	if c == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.balanceRefreshes.WithLabelValues(outcome).Inc()
}

// SetConnected flips the connected gauge.
func (c *Collector) SetConnected(connected bool) {
	if c == nil {
		return
	}
	if connected {
		c.sessionsConnected.Set(1)
		return
	}
	c.sessionsConnected.Set(0)
}
