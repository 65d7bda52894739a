package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(New),
)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	registry *prometheus.Registry

	BackendRequests *prometheus.CounterVec
	BackendLatency  *prometheus.HistogramVec
	Renders         *prometheus.CounterVec
	LiveHandles     prometheus.Gauge
	OpenViews       prometheus.Gauge
	Uploads         *prometheus.CounterVec
	EnvelopesSent   prometheus.Counter
}

// New creates the metrics on a private registry so that tests can build
// several instances side by side.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BackendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workspace_backend_requests_total",
			Help: "Requests sent to the contract backend",
		}, []string{"method", "status"}),
		BackendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workspace_backend_request_duration_seconds",
			Help:    "Latency of requests sent to the contract backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		Renders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workspace_document_renders_total",
			Help: "Documents rendered, by format",
		}, []string{"format"}),
		LiveHandles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "workspace_display_handles_live",
			Help: "Temporary display handles currently held",
		}),
		OpenViews: factory.NewGauge(prometheus.GaugeOpts{
			Name: "workspace_views_open",
			Help: "Document views currently open",
		}),
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workspace_document_uploads_total",
			Help: "Edited documents uploaded to storage, by result",
		}, []string{"result"}),
		EnvelopesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "workspace_envelopes_sent_total",
			Help: "Signature envelopes submitted to the backend",
		}),
	}
}

// ObserveBackendRequest records one outbound backend call
func (m *Metrics) ObserveBackendRequest(method string, statusCode int, duration time.Duration) {
	m.BackendRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	m.BackendLatency.WithLabelValues(method).Observe(duration.Seconds())
}

func (m *Metrics) ObserveRender(format string) {
	m.Renders.WithLabelValues(format).Inc()
}

func (m *Metrics) HandleCreated() {
	m.LiveHandles.Inc()
}

func (m *Metrics) HandleReleased() {
	m.LiveHandles.Dec()
}

func (m *Metrics) ViewOpened() {
	m.OpenViews.Inc()
}

func (m *Metrics) ViewClosed() {
	m.OpenViews.Dec()
}

// ObserveUpload records an upload outcome; err == nil counts as success
func (m *Metrics) ObserveUpload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Uploads.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementEnvelopesSent() {
	m.EnvelopesSent.Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
