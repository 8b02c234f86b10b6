package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~30s
		},
		[]string{"method", "route", "status"},
	)

	// Outbound gateway calls
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_gateway_requests_total",
			Help: "Total number of calls to external gateways",
		},
		[]string{"gateway", "outcome"},
	)

	// Outbound gateway latency (seconds)
	GatewayLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_gateway_latency_seconds",
			Help:    "External gateway call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"gateway"},
	)
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordGatewayCall records one outbound call and its outcome
func RecordGatewayCall(gateway string, err error, duration time.Duration) {
	GatewayRequests.WithLabelValues(gateway, Outcome(err)).Inc()
	GatewayLatency.WithLabelValues(gateway).Observe(duration.Seconds())
}

// Outcome labels an outbound call: ok, the upstream status code, or error
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		return strconv.Itoa(gwErr.StatusCode)
	}
	return "error"
}
