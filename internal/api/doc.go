// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

/*
Package api provides the HTTP surface of the recommendation service
using the Chi router.

# Endpoints

	POST /api/v1/recommendations  Basket lookup
	GET  /api/v1/rules            Association rules, canonical order
	GET  /api/v1/itemsets         Frequent itemsets, canonical order
	GET  /api/v1/items            Catalogue search (?q=, ?limit=)
	GET  /api/v1/products/top     Most frequent products
	GET  /api/v1/status           Model and training state
	POST /api/v1/train            Trigger a training run
	GET  /health                  Liveness and readiness
	GET  /metrics                 Prometheus metrics

# Response Envelope

Every JSON response uses the same envelope:

	{
	  "status": "success",
	  "data": { ... },
	  "metadata": {"timestamp": "..."},
	  "error": null
	}

Errors carry a machine-readable code. NOT_READY (503) means no model
has been trained or loaded yet; it is distinct from a successful lookup
with an empty recommendation list.
*/
package api
