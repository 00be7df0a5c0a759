// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketmine/internal/logging"
	"github.com/tomtom215/basketmine/internal/recommend"
	"github.com/tomtom215/basketmine/internal/rules"
)

// maxRequestBody bounds recommendation request bodies.
const maxRequestBody = 1 << 20 // 1 MiB

// Handler serves the recommendation API.
type Handler struct {
	engine *recommend.Engine
}

// NewHandler creates a Handler around an engine.
func NewHandler(engine *recommend.Engine) *Handler {
	return &Handler{engine: engine}
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req recommend.Request
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &APIResponse{
			Status:   "error",
			Metadata: Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	req.RequestID = w.Header().Get(requestIDHeader)

	resp, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		if errors.Is(err, recommend.ErrNotReady) {
			respondError(w, http.StatusServiceUnavailable, "NOT_READY", "no trained model available yet", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "recommendation lookup failed", err)
		return
	}

	respondOK(w, resp, start)
}

// Rules handles GET /api/v1/rules. Supports limit, min_confidence and
// min_lift query parameters; the thresholds filter on top of the ones
// the model was trained with.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := getIntParam(r, "limit", 100)
	if limit < 1 || limit > 10000 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be 1 to 10000", nil)
		return
	}
	minConfidence := getFloatParam(r, "min_confidence", 0)
	minLift := getFloatParam(r, "min_lift", 0)

	rs, err := h.engine.Rules(0)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	filtered := make([]rules.Rule, 0, len(rs))
	for _, rule := range rs {
		if rule.Confidence < minConfidence || rule.Lift < minLift {
			continue
		}
		filtered = append(filtered, rule)
		if len(filtered) == limit {
			break
		}
	}

	respondOK(w, map[string]interface{}{
		"rules": filtered,
		"count": len(filtered),
	}, start)
}

// Itemsets handles GET /api/v1/itemsets.
func (h *Handler) Itemsets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := getIntParam(r, "limit", 100)
	if limit < 1 || limit > 10000 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be 1 to 10000", nil)
		return
	}

	sets, err := h.engine.Itemsets(limit)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{
		"itemsets": sets,
		"count":    len(sets),
	}, start)
}

// Items handles GET /api/v1/items, a case-insensitive substring search
// over the catalogue.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query().Get("q")
	limit := getIntParam(r, "limit", 50)
	if limit < 1 || limit > 1000 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be 1 to 1000", nil)
		return
	}

	items, err := h.engine.SearchItems(query, limit)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{
		"items": items,
		"count": len(items),
	}, start)
}

// TopProducts handles GET /api/v1/products/top.
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := getIntParam(r, "limit", 10)
	if limit < 1 || limit > 1000 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be 1 to 1000", nil)
		return
	}

	products, err := h.engine.TopProducts(limit)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{
		"products": products,
		"count":    len(products),
	}, start)
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondOK(w, h.engine.Status(), start)
}

// Train handles POST /api/v1/train. Training runs in the background;
// the response confirms the run started, not that it finished.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.engine.Status().Training {
		respondError(w, http.StatusConflict, "TRAINING_IN_PROGRESS", "a training run is already executing", nil)
		return
	}

	// The request context dies with the response; training gets its own.
	go func() {
		if err := h.engine.Train(context.Background()); err != nil &&
			!errors.Is(err, recommend.ErrTrainingInProgress) {
			logging.Error().Err(err).Msg("Background training failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, &APIResponse{
		Status: "success",
		Data:   map[string]string{"message": "training started"},
		Metadata: Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Health handles GET /health. Liveness is implied by responding at all;
// the payload reports readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondOK(w, map[string]interface{}{
		"status": "ok",
		"ready":  h.engine.Ready(),
	}, start)
}

func (h *Handler) respondEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, recommend.ErrNotReady) {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "no trained model available yet", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "request failed", err)
}
