package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway counters on a private registry.
type Metrics struct {
	reg    *prometheus.Registry
	reads  *prometheus.CounterVec
	writes *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loanbook",
			Name:      "document_reads_total",
			Help:      "Document reads by the source that served them.",
		}, []string{"source"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loanbook",
			Name:      "document_writes_total",
			Help:      "Document writes by outcome.",
		}, []string{"outcome"}),
	}
	m.reg.MustRegister(
		m.reads,
		m.writes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) read(source string)   { m.reads.WithLabelValues(source).Inc() }
func (m *Metrics) write(outcome string) { m.writes.WithLabelValues(outcome).Inc() }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
