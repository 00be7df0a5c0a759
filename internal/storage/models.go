// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package storage

import (
	"time"

	"github.com/tomtom215/basketmine/internal/mining"
	"github.com/tomtom215/basketmine/internal/rules"
)

// SchemaVersion tags the artifact layout. Bump on incompatible changes;
// loads reject artifacts written under a different schema.
const SchemaVersion = 1

// Artifact is the durable output of one training run: the only state that
// outlives mining. Trees and transactions are discarded once it is built.
type Artifact struct {
	// SchemaVersion is the layout tag, always SchemaVersion at write time.
	SchemaVersion int `json:"schema_version"`

	// ModelVersion is assigned by the store on save, monotonically
	// increasing across training runs.
	ModelVersion int `json:"model_version"`

	// TrainedAt is when the training run completed.
	TrainedAt time.Time `json:"trained_at"`

	// TransactionCount is the number of input transactions, including
	// ones dropped during encoding.
	TransactionCount int `json:"transaction_count"`

	// DroppedTransactions counts transactions that became empty after
	// support filtering.
	DroppedTransactions int `json:"dropped_transactions"`

	// MinSupport, MinConfidence and MinLift are the thresholds the run
	// was trained with.
	MinSupport    float64 `json:"min_support"`
	MinConfidence float64 `json:"min_confidence"`
	MinLift       float64 `json:"min_lift"`

	// Items is the full catalogue observed in the input, sorted. Backs
	// item search in the lookup service.
	Items []string `json:"items"`

	// Itemsets are the frequent itemsets in canonical order.
	Itemsets []mining.Itemset `json:"itemsets"`

	// Rules are the association rules in canonical order.
	Rules []rules.Rule `json:"rules"`
}

// envelope wraps a serialized artifact with integrity metadata. The
// checksum covers the payload bytes only.
type envelope struct {
	SchemaVersion int    `json:"schema_version"`
	Checksum      string `json:"checksum"`
	Payload       []byte `json:"payload"`
}
