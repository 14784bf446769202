package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the mock server
type Metrics struct {
	// Token Metrics
	TokensIssuedTotal    *prometheus.CounterVec
	TokenValidationTotal *prometheus.CounterVec
	TokensActive         *prometheus.GaugeVec

	// Grant Metrics
	GrantAttemptsTotal *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		TokensIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mock_tokens_issued_total",
				Help: "Total number of access/refresh token pairs issued",
			},
			[]string{"grant_type"}, // password, refresh_token
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mock_token_validation_total",
				Help: "Total number of bearer token validations",
			},
			[]string{"result"}, // valid, unknown, expired
		),
		TokensActive: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mock_tokens_total",
				Help: "Current size of the token tables (insertion-only)",
			},
			[]string{"token_type"}, // access, refresh
		),
		GrantAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mock_grant_attempts_total",
				Help: "Total number of token endpoint requests",
			},
			[]string{"grant_type", "result"}, // result: success, failure
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// RecordTokenIssued records token pair issuance
func (m *Metrics) RecordTokenIssued(grantType string) {
	m.TokensIssuedTotal.WithLabelValues(grantType).Inc()
}

// RecordTokenValidation records bearer token validation result
func (m *Metrics) RecordTokenValidation(result string) {
	m.TokenValidationTotal.WithLabelValues(result).Inc()
}

// RecordGrantAttempt records a token endpoint request outcome
func (m *Metrics) RecordGrantAttempt(grantType string, success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.GrantAttemptsTotal.WithLabelValues(grantType, result).Inc()
}

// SetActiveTokensCount sets the current size of a token table
func (m *Metrics) SetActiveTokensCount(tokenType string, count int) {
	m.TokensActive.WithLabelValues(tokenType).Set(float64(count))
}
