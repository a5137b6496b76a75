package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "retail_dashboard"

// Metrics agrupa os coletores expostos em /metrics
type Metrics struct {
	ReportDuration         *prometheus.HistogramVec
	SourceFailures         *prometheus.CounterVec
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	AdSpendSyncRuns        *prometheus.CounterVec
	AdSpendRecordsUpserted prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registra os coletores no registry padrão do prometheus
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewMetricsWithRegistry permite usar um registry isolado (testes)
func NewMetricsWithRegistry(namespace string, registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_duration_seconds",
				Help:      "Tempo para montar um relatório",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"report"},
		),
		SourceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_source_failures_total",
				Help:      "Fontes degradadas durante a montagem de relatórios",
			},
			[]string{"report", "source"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total de requisições HTTP",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latência das requisições HTTP",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AdSpendSyncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ad_spend_sync_runs_total",
				Help:      "Execuções da sincronização de gasto do Meta",
			},
			[]string{"status"},
		),
		AdSpendRecordsUpserted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ad_spend_records_upserted_total",
				Help:      "Registros de gasto gravados pela sincronização",
			},
		),
		gatherer: gatherer,
	}
}

// RecordReport registra a duração de um relatório
func (m *Metrics) RecordReport(report string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ReportDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// RecordSourceFailure conta uma fonte que foi degradada para vazio
func (m *Metrics) RecordSourceFailure(report, source string) {
	if m == nil {
		return
	}
	m.SourceFailures.WithLabelValues(report, source).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAdSpendSync registra o resultado de uma execução da sincronização
func (m *Metrics) RecordAdSpendSync(status string, records int) {
	if m == nil {
		return
	}
	m.AdSpendSyncRuns.WithLabelValues(status).Inc()
	if records > 0 {
		m.AdSpendRecordsUpserted.Add(float64(records))
	}
}

// Handler devolve o handler HTTP do endpoint /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
