package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TablesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitatshift_tables_generated_total",
			Help: "Total synthetic observation tables generated",
		},
		[]string{"mode"},
	)

	MemoHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitatshift_memo_hits_total",
			Help: "Table lookups served from a session's memoized table",
		},
	)

	Renders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitatshift_renders_total",
			Help: "Total dashboard renders",
		},
		[]string{"view"},
	)

	MarkersPerRender = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitatshift_markers_per_render",
			Help:    "Map markers produced per render after the year filter",
			Buckets: []float64{0, 1, 5, 10, 25, 125},
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "habitatshift_active_sessions",
			Help: "Sessions currently holding a table",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitatshift_sessions_expired_total",
			Help: "Sessions dropped after their idle timeout",
		},
	)

	ChartImageLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitatshift_chart_image_latency_seconds",
			Help:    "Server-side chart PNG render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
