// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package mining

import (
	"fmt"
	"math"
	"sort"
)

// EncodeResult is the output of the frequency-filtering pass over raw
// transactions. It feeds tree construction and records the totals needed
// for support-ratio computation later in the pipeline.
type EncodeResult struct {
	// Transactions are the surviving transactions. Each contains only
	// items meeting the support threshold, reordered by descending global
	// frequency.
	Transactions [][]string

	// Counts maps every surviving item to its global occurrence count
	// (number of transactions containing it).
	Counts map[string]int

	// Rank maps every surviving item to its position in the global
	// frequency order: 0 is the most frequent item. Ties are broken by
	// first appearance across the input, so the ordering is deterministic.
	Rank map[string]int

	// Total is the number of input transactions, including dropped ones.
	// Support ratios are computed against this figure.
	Total int

	// Dropped is the number of transactions that became empty after
	// filtering. They are skipped, not treated as errors.
	Dropped int

	// MinCount is the absolute support threshold: the smallest transaction
	// count an item or itemset needs to satisfy the configured ratio.
	MinCount int
}

// Encode counts item frequencies across all transactions, discards items
// below minSupport, and reorders each transaction by descending global
// frequency. minSupport is a fraction in (0, 1].
//
// Duplicate items within a single transaction are collapsed: support is
// the number of transactions containing an item, not the number of units
// sold.
func Encode(transactions [][]string, minSupport float64) (*EncodeResult, error) {
	if minSupport <= 0 || minSupport > 1 {
		return nil, fmt.Errorf("min_support must be in (0, 1], got %v", minSupport)
	}

	total := len(transactions)
	res := &EncodeResult{
		Counts: make(map[string]int),
		Rank:   make(map[string]int),
		Total:  total,
	}
	if total == 0 {
		res.MinCount = 1
		return res, nil
	}

	// An item survives when count/total >= minSupport, i.e. when its
	// count reaches ceil(minSupport * total).
	minCount := int(math.Ceil(minSupport * float64(total)))
	if minCount < 1 {
		minCount = 1
	}
	res.MinCount = minCount

	// First pass: global counts, one per transaction per item, plus the
	// first-appearance order used as tie-break.
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, txn := range transactions {
		seen := make(map[string]struct{}, len(txn))
		for _, item := range txn {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			if _, ok := firstSeen[item]; !ok {
				firstSeen[item] = len(firstSeen)
			}
			counts[item]++
		}
	}

	for item, count := range counts {
		if count >= minCount {
			res.Counts[item] = count
		}
	}
	if len(res.Counts) == 0 {
		res.Dropped = total
		return res, nil
	}

	res.Rank = rankByFrequency(res.Counts, firstSeen)

	// Second pass: filter and reorder each transaction.
	res.Transactions = make([][]string, 0, total)
	for _, txn := range transactions {
		encoded := make([]string, 0, len(txn))
		seen := make(map[string]struct{}, len(txn))
		for _, item := range txn {
			if _, ok := res.Counts[item]; !ok {
				continue
			}
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			encoded = append(encoded, item)
		}
		if len(encoded) == 0 {
			res.Dropped++
			continue
		}
		sort.Slice(encoded, func(i, j int) bool {
			return res.Rank[encoded[i]] < res.Rank[encoded[j]]
		})
		res.Transactions = append(res.Transactions, encoded)
	}

	return res, nil
}

// rankByFrequency orders items by descending count, ties broken by
// ascending tieOrder, and returns the item-to-position mapping.
func rankByFrequency(counts map[string]int, tieOrder map[string]int) map[string]int {
	items := make([]string, 0, len(counts))
	for item := range counts {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if counts[items[i]] != counts[items[j]] {
			return counts[items[i]] > counts[items[j]]
		}
		return tieOrder[items[i]] < tieOrder[items[j]]
	})

	rank := make(map[string]int, len(items))
	for i, item := range items {
		rank[item] = i
	}
	return rank
}
