// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

/*
Package metrics provides Prometheus metrics collection and export for
observability.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8470/metrics

# Available Metrics

Training Metrics:
  - training_duration_seconds: End-to-end training runtime (histogram)
  - training_runs_total: Training runs by outcome (counter)
    Labels: status ("success", "failure", "rejected")
  - frequent_itemsets: Itemset count in the active model (gauge)
  - association_rules: Rule count in the active model (gauge)
  - model_version: Version of the active model (gauge)
  - training_transactions: Transactions used by the last run (gauge)

Recommendation Metrics:
  - recommend_requests_total: Lookup requests by outcome (counter)
    Labels: status ("success", "empty", "not_ready")
  - recommend_duration_seconds: Lookup latency (histogram)

HTTP Metrics:
  - http_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status_code
  - http_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint

All metrics are registered with the default registry via promauto at
package initialization.
*/
package metrics
