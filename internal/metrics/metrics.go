package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores del servicio sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	submissions     *prometheus.CounterVec
	skippedRows     prometheus.Counter
	scanDuration    prometheus.Histogram
	surveysScanned  prometheus.Gauge
	requestDuration *prometheus.HistogramVec
}

// New registra los colectores. Cada llamada usa un registry nuevo, asi los tests no chocan.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "childsurvey",
			Name:      "submissions_total",
			Help:      "Survey submissions by outcome.",
		}, []string{"outcome"}),
		skippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "childsurvey",
			Name:      "scan_skipped_rows_total",
			Help:      "Stored rows skipped during scans because they failed schema validation.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "childsurvey",
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent scanning the record store and building a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		surveysScanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "childsurvey",
			Name:      "surveys_last_scan",
			Help:      "Valid records seen by the most recent scan.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "childsurvey",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.submissions,
		m.skippedRows,
		m.scanDuration,
		m.surveysScanned,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler expone el registry en formato de texto de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Submission cuenta un envio: "stored", "invalid" o "error".
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// Scan registra un escaneo completo.
func (m *Metrics) Scan(records, skipped int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scanDuration.Observe(elapsed.Seconds())
	m.surveysScanned.Set(float64(records))
	m.skippedRows.Add(float64(skipped))
}

// Request registra la latencia de una peticion HTTP.
func (m *Metrics) Request(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
