package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

type BatchMetrics struct {
	registry *prometheus.Registry
	service  string

	filesTotal     *prometheus.CounterVec
	fileDuration   *prometheus.HistogramVec
	filesInFlight  prometheus.Gauge
	stageFailures  *prometheus.CounterVec
	repairAttempts prometheus.Counter
}

func NewBatchMetrics(service string) *BatchMetrics {
	registry := prometheus.NewRegistry()

	filesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archivist",
			Subsystem: "batch",
			Name:      "files_total",
			Help:      "Total processed files by status.",
		},
		[]string{"service", "status"},
	)
	fileDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "archivist",
			Subsystem: "batch",
			Name:      "file_duration_seconds",
			Help:      "Per-file pipeline duration in seconds by status.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	filesInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "archivist",
			Subsystem: "batch",
			Name:      "files_in_flight",
			Help:      "Number of files currently in the pipeline.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	stageFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archivist",
			Subsystem: "batch",
			Name:      "stage_failures_total",
			Help:      "File failures by pipeline stage.",
		},
		[]string{"service", "stage"},
	)
	repairAttempts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "archivist",
			Subsystem: "batch",
			Name:      "repair_attempts_total",
			Help:      "Ghostscript repair attempts triggered by rasterizer failures.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(filesTotal, fileDuration, filesInFlight, stageFailures, repairAttempts)

	return &BatchMetrics{
		registry:       registry,
		service:        service,
		filesTotal:     filesTotal,
		fileDuration:   fileDuration,
		filesInFlight:  filesInFlight,
		stageFailures:  stageFailures,
		repairAttempts: repairAttempts,
	}
}

func (m *BatchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *BatchMetrics) StartFile() {
	m.filesInFlight.Inc()
}

func (m *BatchMetrics) FinishFile(duration time.Duration, err error) {
	m.filesInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
		m.stageFailures.WithLabelValues(m.service, stageForError(err)).Inc()
	}

	m.filesTotal.WithLabelValues(m.service, status).Inc()
	m.fileDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *BatchMetrics) RepairAttempt() {
	m.repairAttempts.Inc()
}

func stageForError(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrRepairFailed):
		return "repair"
	case domain.IsKind(err, domain.ErrToolNotFound),
		domain.IsKind(err, domain.ErrToolExecution),
		domain.IsKind(err, domain.ErrRasterizer):
		return "ocr"
	case domain.IsKind(err, domain.ErrEmptyText):
		return "extract"
	case domain.IsKind(err, domain.ErrClassificationParse),
		domain.IsKind(err, domain.ErrClassificationTransport):
		return "classify"
	case domain.IsKind(err, domain.ErrMoveFailed):
		return "move"
	default:
		return "other"
	}
}
