// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package mining

import (
	"sort"
	"strings"
)

// keySeparator joins item identifiers into canonical keys. The unit
// separator cannot appear in product names, unlike commas.
const keySeparator = "\x1f"

// Itemset is a frequent itemset together with its support.
type Itemset struct {
	// Items are the member item identifiers, sorted lexicographically.
	Items []string `json:"items"`

	// SupportCount is the number of transactions containing every item.
	SupportCount int `json:"support_count"`

	// SupportRatio is SupportCount divided by the total transaction count.
	SupportRatio float64 `json:"support_ratio"`
}

// Key returns the canonical key for the itemset, used for support lookups
// during rule generation.
func (s Itemset) Key() string {
	return Key(s.Items)
}

// Key returns a canonical key for a set of items. The input is not
// modified; items are sorted in a copy before joining.
func Key(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return strings.Join(sorted, keySeparator)
}

// SortItemsets orders itemsets canonically: by size ascending, then by key.
// Used to make miner output deterministic regardless of worker scheduling.
func SortItemsets(sets []Itemset) {
	sort.Slice(sets, func(i, j int) bool {
		if len(sets[i].Items) != len(sets[j].Items) {
			return len(sets[i].Items) < len(sets[j].Items)
		}
		return sets[i].Key() < sets[j].Key()
	})
}
