// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

// Package rules derives association rules from frequent itemsets and
// serves basket lookups over an immutable rule index.
//
// # Rule Generation
//
// Every frequent itemset of size >= 2 is expanded into all 2^k - 2
// antecedent/consequent partitions. Each partition's confidence and lift
// are computed from the frequent-itemset support table (antimonotonicity
// guarantees every subset of a frequent itemset is itself in the table),
// and rules failing the configured thresholds are discarded.
//
// Metrics per rule:
//
//	support    = P(antecedent ∪ consequent)
//	confidence = support / P(antecedent)           ∈ [0, 1]
//	lift       = confidence / P(consequent)        > 0; 1 = independence
//	leverage   = support - P(antecedent)·P(consequent)
//	conviction = (1 - P(consequent)) / (1 - confidence)
//
// # Lookup
//
// Index is built once per training run and is read-only afterwards, so
// concurrent lookups need no locking. Retraining builds a fresh Index and
// swaps it in; a published Index is never patched in place.
package rules
