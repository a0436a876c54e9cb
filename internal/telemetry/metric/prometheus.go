package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "staticweb"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	ConnectionsAccepted    *prometheus.CounterVec
	ConnectionsRateLimited *prometheus.CounterVec
	ConnectionsActive      *prometheus.GaugeVec
	HandshakeFailures      prometheus.Counter
	ProtocolRejections     *prometheus.CounterVec
	Responses              *prometheus.CounterVec
	BytesWritten           prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// NewRegistry creates the metrics and registers them, together with the Go
// runtime and process collectors, on a fresh prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ConnectionsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conn",
			Name:      "accepted_total",
			Help:      "Connections accepted, by transport",
		}, []string{"transport"}),
		ConnectionsRateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conn",
			Name:      "rate_limited_total",
			Help:      "Connections closed because the peer exceeded its accept rate",
		}, []string{"transport"}),
		ConnectionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "conn",
			Name:      "active",
			Help:      "Connections currently being handled",
		}, []string{"transport"}),
		HandshakeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tls",
			Name:      "handshake_failures_total",
			Help:      "TLS handshakes that did not complete",
		}),
		ProtocolRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "protocol_rejections_total",
			Help:      "Requests rejected with a bare diagnostic notice, by reason",
		}, []string{"reason"}),
		Responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "responses_total",
			Help:      "Responses written, by transport and status code",
		}, []string{"transport", "status"}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_bytes_total",
			Help:      "Response bytes written, headers included",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time from accepted request line to flushed response",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsAccepted,
		r.ConnectionsRateLimited,
		r.ConnectionsActive,
		r.HandshakeFailures,
		r.ProtocolRejections,
		r.Responses,
		r.BytesWritten,
		r.RequestDuration,
	)

	return r
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveResponse records one written response.
func (r *Registry) ObserveResponse(transport string, status, bytes int, elapsed time.Duration) {
	r.Responses.WithLabelValues(transport, strconv.Itoa(status)).Inc()
	r.BytesWritten.Add(float64(bytes))
	r.RequestDuration.WithLabelValues(transport).Observe(elapsed.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// NewServer returns an *http.Server exposing /metrics on addr.
func (r *Registry) NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
