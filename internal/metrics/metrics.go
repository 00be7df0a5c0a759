// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of training runs by outcome",
		},
		[]string{"status"}, // "success", "failure", "rejected"
	)

	FrequentItemsets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frequent_itemsets",
			Help: "Number of frequent itemsets in the active model",
		},
	)

	AssociationRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "association_rules",
			Help: "Number of association rules in the active model",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_version",
			Help: "Version number of the active model",
		},
	)

	TrainingTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "training_transactions",
			Help: "Number of transactions used by the last training run",
		},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation lookups by outcome",
		},
		[]string{"status"}, // "success", "empty", "not_ready"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of recommendation lookups in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordTraining records the outcome of a training run.
func RecordTraining(duration time.Duration, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingRuns.WithLabelValues("failure").Inc()
		return
	}
	TrainingRuns.WithLabelValues("success").Inc()
}

// RecordModelSwap updates the active-model gauges after a successful
// training run publishes a new model.
func RecordModelSwap(version int, itemsets, rules, transactions int) {
	ModelVersion.Set(float64(version))
	FrequentItemsets.Set(float64(itemsets))
	AssociationRules.Set(float64(rules))
	TrainingTransactions.Set(float64(transactions))
}

// RecordRecommendation records a recommendation lookup.
func RecordRecommendation(status string, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(status).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
