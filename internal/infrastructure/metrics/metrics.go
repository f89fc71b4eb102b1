// Package metrics exposes prometheus collectors for the price service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"cryptoprice-service/internal/application"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg prometheus.Gatherer

	exchangeReqs *prometheus.CounterVec
	persisted    *prometheus.CounterVec
	httpReqs     *prometheus.CounterVec
	httpDur      *prometheus.HistogramVec
}

var _ application.Observer = (*Metrics)(nil)

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{reg: reg}
	m.exchangeReqs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cryptoprice",
		Name:      "exchange_requests_total",
		Help:      "Ticker requests to the upstream exchange by outcome",
	}, []string{"exchange", "outcome"})
	m.persisted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cryptoprice",
		Name:      "price_writes_total",
		Help:      "Best-effort price writes by status",
	}, []string{"status"})
	m.httpReqs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cryptoprice",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})
	m.httpDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cryptoprice",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(
		m.exchangeReqs, m.persisted, m.httpReqs, m.httpDur,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ExchangeRequest(exchange, outcome string) {
	m.exchangeReqs.WithLabelValues(exchange, outcome).Inc()
}

func (m *Metrics) Persisted(ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.persisted.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	m.httpReqs.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDur.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
