// Package metrics holds the Prometheus collectors for the SDK. Components
// receive a *Metrics via explicit injection; a nil *Metrics disables
// recording entirely.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the SDK.
type Metrics struct {
	// Trading API metrics
	apiCallsTotal   *prometheus.CounterVec
	apiCallDuration *prometheus.HistogramVec

	// Signing metrics
	transactionsSigned *prometheus.CounterVec

	// Bundle submission metrics
	bundlesSubmitted     *prometheus.CounterVec
	bundleSubmitDuration prometheus.Histogram
	bundleSize           prometheus.Histogram
	rateLimitWaits       prometheus.Counter

	// Solana RPC metrics
	rpcCallsTotal   *prometheus.CounterVec
	rpcCallDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		apiCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradewind_api_calls_total",
				Help: "Total number of trading API calls by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		apiCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradewind_api_call_duration_seconds",
				Help:    "Duration of trading API calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"endpoint"},
		),
		transactionsSigned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradewind_transactions_signed_total",
				Help: "Total number of transactions run through the co-signer",
			},
			[]string{"status"},
		),
		bundlesSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradewind_bundles_submitted_total",
				Help: "Total number of bundles sent to the broadcast endpoint",
			},
			[]string{"status"},
		),
		bundleSubmitDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradewind_bundle_submit_duration_seconds",
				Help:    "Duration of bundle broadcast calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
		),
		bundleSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradewind_bundle_size_transactions",
				Help:    "Number of transactions per submitted bundle",
				Buckets: []float64{1, 2, 3, 4, 5},
			},
		),
		rateLimitWaits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tradewind_rate_limit_waits_total",
				Help: "Total number of submissions that had to wait for the rate-limit window",
			},
		),
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradewind_solana_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradewind_solana_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"method", "endpoint"},
		),
	}
}

// RecordAPICall records one trading API call.
func (m *Metrics) RecordAPICall(endpoint, status string, seconds float64) {
	m.apiCallsTotal.WithLabelValues(endpoint, status).Inc()
	m.apiCallDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordTransactionSigned records one co-signing attempt.
func (m *Metrics) RecordTransactionSigned(status string) {
	m.transactionsSigned.WithLabelValues(status).Inc()
}

// RecordBundleSubmission records one bundle broadcast attempt.
func (m *Metrics) RecordBundleSubmission(status string, size int, seconds float64) {
	m.bundlesSubmitted.WithLabelValues(status).Inc()
	m.bundleSubmitDuration.Observe(seconds)
	m.bundleSize.Observe(float64(size))
}

// RecordRateLimitWait records a submission that blocked on the rate limiter.
func (m *Metrics) RecordRateLimitWait() {
	m.rateLimitWaits.Inc()
}

// RecordRPCCall records one Solana RPC call.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, seconds float64) {
	m.rpcCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.rpcCallDuration.WithLabelValues(method, endpoint).Observe(seconds)
}
