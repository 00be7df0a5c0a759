// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/basketmine/internal/rules"
)

// Request is a recommendation lookup for a single basket.
type Request struct {
	// Items is the current basket contents. Unknown items are ignored.
	Items []string `json:"items" validate:"required,min=1,dive,required"`

	// TopN caps the number of recommendations returned. Zero uses the
	// engine default.
	TopN int `json:"top_n" validate:"min=0,max=100"`

	// MinConfidence filters matched rules below this confidence.
	// Negative means no filter beyond what training already applied.
	MinConfidence float64 `json:"min_confidence"`

	// MinLift filters matched rules below this lift. Negative means no
	// filter beyond what training already applied.
	MinLift float64 `json:"min_lift"`

	// RequestID correlates logs for this lookup. Assigned when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response carries recommendations plus lookup metadata.
type Response struct {
	Recommendations []rules.Recommendation `json:"recommendations"`
	Metadata        ResponseMetadata       `json:"metadata"`
}

// ResponseMetadata describes the model and timing behind a response.
type ResponseMetadata struct {
	RequestID    string    `json:"request_id"`
	ModelVersion int       `json:"model_version"`
	TrainedAt    time.Time `json:"trained_at"`
	LatencyMS    float64   `json:"latency_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// TrainingStatus reports the engine's model state.
type TrainingStatus struct {
	Ready            bool      `json:"ready"`
	Training         bool      `json:"training"`
	ModelVersion     int       `json:"model_version"`
	TrainedAt        time.Time `json:"trained_at,omitempty"`
	TransactionCount int       `json:"transaction_count"`
	ItemsetCount     int       `json:"itemset_count"`
	RuleCount        int       `json:"rule_count"`
	ItemCount        int       `json:"item_count"`
	LastError        string    `json:"last_error,omitempty"`
}

// TransactionSource supplies baskets for training. Implemented by the
// ingest layer.
type TransactionSource interface {
	// Transactions returns one item slice per basket. Items within a
	// basket may repeat; the encoder deduplicates.
	Transactions(ctx context.Context) ([][]string, error)
}
