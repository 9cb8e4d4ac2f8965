package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

type MetricsCollector struct {
	registry         *prometheus.Registry
	loadsProcessed   *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	recordsSkipped   prometheus.Counter
	processDuration  prometheus.Histogram
	customersTracked prometheus.Gauge
	logger           *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		loadsProcessed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fund_loads_processed_total",
			Help: "Total number of evaluated fund loads by outcome",
		}, []string{"outcome"}),
		rejections: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fund_load_rejections_total",
			Help: "Total number of rejected fund loads by the rule that rejected them",
		}, []string{"rule"}),
		recordsSkipped: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "fund_load_records_skipped_total",
			Help: "Total number of malformed input records skipped",
		}),
		processDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "fund_load_processing_duration_seconds",
			Help:    "Time taken to evaluate a fund load",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		customersTracked: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "fund_load_customers_tracked",
			Help: "Number of customers with at least one accepted load",
		}),
		logger: logger,
	}
}

func (m *MetricsCollector) RecordDecision(duration time.Duration, accepted bool, rejectedBy string) {
	m.processDuration.Observe(duration.Seconds())

	if accepted {
		m.loadsProcessed.WithLabelValues(OutcomeAccepted).Inc()
		return
	}
	m.loadsProcessed.WithLabelValues(OutcomeRejected).Inc()
	m.rejections.WithLabelValues(rejectedBy).Inc()
}

func (m *MetricsCollector) RecordSkipped() {
	m.recordsSkipped.Inc()
}

func (m *MetricsCollector) SetCustomersTracked(n int) {
	m.customersTracked.Set(float64(n))
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}
