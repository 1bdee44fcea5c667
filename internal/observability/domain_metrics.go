package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pipelineRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optiflow_pipeline_requests_total",
			Help: "Total number of dashboard pipeline runs started.",
		},
	)
	pipelineFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optiflow_pipeline_failures_total",
			Help: "Pipeline failures by stage (synthesize, validate, execute, classify).",
		},
		[]string{"stage"},
	)
	synthesisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "optiflow_synthesis_duration_seconds",
			Help:    "Latency of query synthesis calls to the generation backend.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
		},
	)
	chartTypeResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optiflow_chart_type_resolutions_total",
			Help: "How the chart type was resolved (directive, inferred, fallback).",
		},
		[]string{"source"},
	)
	queryResultRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "optiflow_query_result_rows",
			Help:    "Row counts of classified query results.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
)

func init() {
	prometheus.MustRegister(
		pipelineRequestsTotal,
		pipelineFailuresTotal,
		synthesisDurationSeconds,
		chartTypeResolutionsTotal,
		queryResultRows,
	)
}

func IncrementPipelineRequest() {
	pipelineRequestsTotal.Inc()
}

func IncrementPipelineFailure(stage string) {
	pipelineFailuresTotal.WithLabelValues(stage).Inc()
}

func ObserveSynthesisDuration(d time.Duration) {
	synthesisDurationSeconds.Observe(d.Seconds())
}

func IncrementChartTypeResolution(source string) {
	chartTypeResolutionsTotal.WithLabelValues(source).Inc()
}

func ObserveQueryResultRows(count int) {
	queryResultRows.Observe(float64(count))
}
