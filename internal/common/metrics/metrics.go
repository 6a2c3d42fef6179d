// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_documents_generated_total",
			Help: "Total number of documents generated, by resolved format",
		},
		[]string{"format"},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_generation_failures_total",
			Help: "Total number of failed generation requests, by stage and error code",
		},
		[]string{"stage", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "docgen_generation_duration_seconds",
			Help: "Duration of generation requests in seconds",
		},
		[]string{"format"},
	)

	RenderFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docgen_render_fallbacks_total",
			Help: "Total number of package renders degraded to plain-text substitution",
		},
	)

	PhotoReportsComposed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docgen_photo_reports_composed_total",
			Help: "Total number of photo reports composed",
		},
	)

	PhotoReportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_photo_report_failures_total",
			Help: "Total number of failed photo report compositions, by error code",
		},
		[]string{"error_code"},
	)
)
