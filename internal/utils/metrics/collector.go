// internal/utils/metrics/collector.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wallet_tracker"

// Исходы свапа.
const (
	SwapConfirmed = "confirmed"
	SwapRejected  = "rejected"
	SwapFailed    = "failed"
)

// Collector держит метрики трекера в собственном реестре.
type Collector struct {
	registry *prometheus.Registry

	rpcCalls    *prometheus.CounterVec
	rpcLatency  *prometheus.HistogramVec
	swaps       *prometheus.CounterVec
	swapLatency prometheus.Histogram
}

// NewCollector создает новый экземпляр коллектора метрик
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		rpcCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_calls_total",
				Help:      "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		rpcLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_latency_seconds",
				Help:      "RPC request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"method", "endpoint"},
		),
		swaps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "swaps_total",
				Help:      "Swap attempts by outcome",
			},
			[]string{"outcome"},
		),
		swapLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "swap_duration_seconds",
				Help:      "Time from quote request to confirmation or failure",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
			},
		),
	}
}

// Endpoint returns a recorder labelled with the given RPC endpoint name.
func (c *Collector) Endpoint(name string) *EndpointRecorder {
	return &EndpointRecorder{c: c, endpoint: name}
}

// ObserveSwap records one swap attempt.
func (c *Collector) ObserveSwap(outcome string, duration time.Duration) {
	c.swaps.WithLabelValues(outcome).Inc()
	c.swapLatency.Observe(duration.Seconds())
}

// Registry exposes the underlying registry (tests, custom exporters).
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// EndpointRecorder записывает RPC-метрики одного эндпоинта.
type EndpointRecorder struct {
	c        *Collector
	endpoint string
}

// ObserveRPC records a single RPC call.
func (r *EndpointRecorder) ObserveRPC(method string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.c.rpcCalls.WithLabelValues(method, status, r.endpoint).Inc()
	r.c.rpcLatency.WithLabelValues(method, r.endpoint).Observe(duration.Seconds())
}
