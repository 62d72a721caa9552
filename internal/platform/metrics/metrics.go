package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del proceso web. Registry propio para poder
// instanciarlo varias veces en tests.
type Metrics struct {
	Registry *prometheus.Registry

	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	pagesTotal       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "annotate_web",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the Annotate REST backend.",
		}, []string{"method", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "annotate_web",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests to the Annotate REST backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		pagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "annotate_web",
			Name:      "http_requests_total",
			Help:      "Requests served by the web client, by route pattern.",
		}, []string{"route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamTotal,
		m.upstreamDuration,
		m.pagesTotal,
	)
	return m
}

// ObserveUpstream: status 0 = fallo de transporte.
func (m *Metrics) ObserveUpstream(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamTotal.WithLabelValues(method, statusLabel(status)).Inc()
	m.upstreamDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) ObservePage(route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.pagesTotal.WithLabelValues(route, statusLabel(status)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func statusLabel(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
