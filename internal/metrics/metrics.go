// Package metrics provides the centralized Prometheus metrics registry for
// the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clutch_call",
		Name:      "predictions_total",
		Help:      "Total number of predictions served by status",
	}, []string{"status"})
	PredictionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "clutch_call",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of predictions answered from the cache",
	})
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clutch_call",
		Name:      "training_runs_total",
		Help:      "Total number of training pipeline runs by status",
	}, []string{"status"})
	FeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clutch_call",
		Name:      "feed_requests_total",
		Help:      "Total number of feed fetches by status",
	}, []string{"status"})
	NameResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clutch_call",
		Name:      "name_resolutions_total",
		Help:      "Total number of team name resolutions by method",
	}, []string{"method"})
)

// Gauge metrics
var (
	TrainingMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clutch_call",
		Name:      "training_matches",
		Help:      "Number of matches behind the currently served model",
	})
	TrainingRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clutch_call",
		Name:      "training_rows",
		Help:      "Number of feature rows the current model was fit on",
	})
	KnownTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clutch_call",
		Name:      "known_teams",
		Help:      "Number of teams in the current model's roster",
	})
	ModelTrainedTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clutch_call",
		Name:      "model_trained_timestamp_seconds",
		Help:      "Unix time the currently served model finished training",
	})
	UpcomingFixtures = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clutch_call",
		Name:      "upcoming_fixtures",
		Help:      "Number of scheduled fixtures seen in the last poll",
	})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "clutch_call",
		Name:      "training_duration_seconds",
		Help:      "End-to-end training pipeline duration",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "clutch_call",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of serving a single prediction",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)

// InitRegistry initializes the global registry and registers every metric.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionCacheHitsTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(FeedRequestsTotal)
		registry.MustRegister(NameResolutionsTotal)

		// Register gauge metrics
		registry.MustRegister(TrainingMatches)
		registry.MustRegister(TrainingRows)
		registry.MustRegister(KnownTeams)
		registry.MustRegister(ModelTrainedTimestamp)
		registry.MustRegister(UpcomingFixtures)

		// Register histogram metrics
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(PredictionLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a served prediction and its latency.
func RecordPrediction(status string, durationSeconds float64) {
	PredictionsTotal.WithLabelValues(status).Inc()
	PredictionLatency.Observe(durationSeconds)
}

// RecordCacheHit records a prediction answered from the cache.
func RecordCacheHit() {
	PredictionCacheHitsTotal.Inc()
}

// RecordTrainingRun records a training pipeline run and its duration.
func RecordTrainingRun(status string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(status).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// RecordFeedRequest records a feed fetch outcome.
func RecordFeedRequest(status string) {
	FeedRequestsTotal.WithLabelValues(status).Inc()
}

// RecordNameResolution records how a team name was resolved.
// method should be one of: "exact", "alias", "fuzzy", "unresolved"
func RecordNameResolution(method string) {
	NameResolutionsTotal.WithLabelValues(method).Inc()
}

// UpdateUpcomingFixtures updates the scheduled-fixture gauge.
func UpdateUpcomingFixtures(count int) {
	UpcomingFixtures.Set(float64(count))
}

// UpdateModelInfo updates the gauges describing the currently served model.
func UpdateModelInfo(matches, rows, teams int, trainedAtUnix float64) {
	TrainingMatches.Set(float64(matches))
	TrainingRows.Set(float64(rows))
	KnownTeams.Set(float64(teams))
	ModelTrainedTimestamp.Set(trainedAtUnix)
}
