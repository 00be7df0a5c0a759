// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketmine/internal/config"
	"github.com/tomtom215/basketmine/internal/recommend"
)

var retailTransactions = [][]string{
	{"bread", "milk"},
	{"bread", "diaper", "beer"},
	{"milk", "diaper", "beer", "eggs"},
	{"bread", "milk", "diaper", "beer"},
	{"bread", "milk", "diaper", "eggs"},
}

func newTestRouter(t *testing.T, trained bool) http.Handler {
	t.Helper()
	engine, err := recommend.NewEngine(&recommend.Config{
		MinSupport:    0.6,
		MinConfidence: 0.1,
		TopN:          5,
	}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	if trained {
		if err := engine.TrainTransactions(context.Background(), retailTransactions); err != nil {
			t.Fatalf("TrainTransactions returned error: %v", err)
		}
	}
	cfg := &config.APIConfig{
		RateLimitRequests: 0,
		RateLimitWindow:   time.Minute,
		CORSOrigins:       []string{"*"},
	}
	return NewRouter(NewHandler(engine), cfg)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, *APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, &resp
}

func TestRecommendationsEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/recommendations",
		map[string]interface{}{"items": []string{"milk"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if resp.Status != "success" {
		t.Errorf("Status = %q, want success", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data is %T, want object", resp.Data)
	}
	recs, ok := data["recommendations"].([]interface{})
	if !ok || len(recs) == 0 {
		t.Errorf("recommendations = %v, want non-empty list", data["recommendations"])
	}
}

func TestRecommendationsNotReady(t *testing.T) {
	router := newTestRouter(t, false)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/recommendations",
		map[string]interface{}{"items": []string{"milk"}})

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "NOT_READY" {
		t.Errorf("Error = %+v, want NOT_READY", resp.Error)
	}
}

func TestRecommendationsEmptyBasketRejected(t *testing.T) {
	router := newTestRouter(t, true)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/recommendations",
		map[string]interface{}{"items": []string{}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Error = %+v, want VALIDATION_ERROR", resp.Error)
	}
}

func TestRecommendationsMalformedBody(t *testing.T) {
	router := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations",
		bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendationsUnknownItemsEmptyList(t *testing.T) {
	router := newTestRouter(t, true)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/recommendations",
		map[string]interface{}{"items": []string{"no-such-product"}})

	// An empty result from a ready model is success, not 503.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	recs, ok := data["recommendations"].([]interface{})
	if !ok {
		t.Fatalf("recommendations missing or null: %v", data)
	}
	if len(recs) != 0 {
		t.Errorf("recommendations = %v, want empty list", recs)
	}
}

func TestRulesEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/rules?limit=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := resp.Data.(map[string]interface{})
	rules, ok := data["rules"].([]interface{})
	if !ok {
		t.Fatalf("rules = %v, want list", data["rules"])
	}
	if len(rules) == 0 || len(rules) > 3 {
		t.Errorf("len(rules) = %d, want 1..3", len(rules))
	}
}

func TestRulesEndpointBadLimit(t *testing.T) {
	router := newTestRouter(t, true)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/rules?limit=0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestItemsetsEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/itemsets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["count"].(float64) == 0 {
		t.Error("itemsets count = 0, want > 0")
	}
}

func TestItemsSearchEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/items?q=mil", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 || items[0] != "milk" {
		t.Errorf("items = %v, want [milk]", items)
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["ready"] != true {
		t.Errorf("ready = %v, want true", data["ready"])
	}
	if data["model_version"].(float64) != 1 {
		t.Errorf("model_version = %v, want 1", data["model_version"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, false)

	rec, resp := doRequest(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	// Liveness is fine even though no model is ready yet.
	if data["ready"] != false {
		t.Errorf("ready = %v, want false", data["ready"])
	}
}

func TestRequestIDEchoed(t *testing.T) {
	router := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set(requestIDHeader, "test-id-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "test-id-123" {
		t.Errorf("X-Request-ID = %q, want test-id-123", got)
	}
}

func TestRequestIDAssigned(t *testing.T) {
	router := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("X-Request-ID not assigned")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("metrics body is empty")
	}
}

func TestTrainEndpointAccepted(t *testing.T) {
	router := newTestRouter(t, true)

	rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/train", nil)
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
}
