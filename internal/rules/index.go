// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/basketmine/internal/mining"
)

// maxSubsetLookup bounds the basket size for which lookups enumerate
// basket subsets against the antecedent key map. Larger baskets fall back
// to a linear scan over the rules, which is cheaper than 2^n subsets.
const maxSubsetLookup = 16

// Recommendation is one ranked lookup result.
type Recommendation struct {
	// Item is the recommended item identifier.
	Item string `json:"item"`

	// Confidence and Lift come from the best rule that produced the item.
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`

	// Support is the support of the best rule.
	Support float64 `json:"support"`

	// BasedOn is the antecedent of the best rule: the basket items that
	// triggered the recommendation.
	BasedOn []string `json:"based_on"`
}

// ProductStat counts how often an item appears among rule consequents.
type ProductStat struct {
	Item            string `json:"item"`
	RuleAppearances int    `json:"rule_appearances"`
}

// Index is an immutable collection of association rules keyed by
// antecedent. It is built once per training run and never mutated
// afterwards, so concurrent lookups require no locking. Retraining
// replaces the whole Index; it is never patched in place.
type Index struct {
	rules     []Rule
	byAnte    map[string][]int
	anteItems map[string]struct{}
	catalogue []string
	version   int
	trainedAt time.Time
}

// NewIndex builds an index over rules in canonical order. The catalogue
// lists every item known at training time and backs substring search; it
// is copied and sorted.
func NewIndex(rs []Rule, catalogue []string, version int, trainedAt time.Time) *Index {
	sorted := make([]Rule, len(rs))
	copy(sorted, rs)
	SortCanonical(sorted)

	ix := &Index{
		rules:     sorted,
		byAnte:    make(map[string][]int),
		anteItems: make(map[string]struct{}),
		catalogue: append([]string(nil), catalogue...),
		version:   version,
		trainedAt: trainedAt,
	}
	sort.Strings(ix.catalogue)

	for i, r := range sorted {
		key := mining.Key(r.Antecedent)
		ix.byAnte[key] = append(ix.byAnte[key], i)
		for _, item := range r.Antecedent {
			ix.anteItems[item] = struct{}{}
		}
	}
	return ix
}

// Len returns the number of rules in the index.
func (ix *Index) Len() int {
	return len(ix.rules)
}

// Version returns the model version the index was built from.
func (ix *Index) Version() int {
	return ix.version
}

// TrainedAt returns when the underlying model was trained.
func (ix *Index) TrainedAt() time.Time {
	return ix.trainedAt
}

// Rules returns up to limit rules in canonical order. A non-positive
// limit returns all rules. The returned slice must not be modified.
func (ix *Index) Rules(limit int) []Rule {
	if limit <= 0 || limit > len(ix.rules) {
		limit = len(ix.rules)
	}
	return ix.rules[:limit]
}

// Recommend ranks additional items for a basket. Rules whose antecedent
// is a subset of the basket contribute their consequent items; each
// candidate keeps the metrics of its best rule (higher lift, then higher
// confidence, then smaller antecedent, then antecedent key). Items
// already in the basket are excluded, unknown basket items are ignored,
// and at most topN results are returned in canonical order.
//
// minConfidence and minLift apply on top of the thresholds used at
// training time; zero disables the extra filtering.
func (ix *Index) Recommend(basket []string, topN int, minConfidence, minLift float64) []Recommendation {
	if len(ix.rules) == 0 || len(basket) == 0 || topN <= 0 {
		return nil
	}

	inBasket := make(map[string]struct{}, len(basket))
	for _, item := range basket {
		inBasket[item] = struct{}{}
	}

	best := make(map[string]*Rule)
	consider := func(r *Rule) {
		if r.Confidence < minConfidence || r.Lift < minLift {
			return
		}
		for _, item := range r.Consequent {
			if _, dup := inBasket[item]; dup {
				continue
			}
			cur, ok := best[item]
			if !ok || betterRule(r, cur) {
				best[item] = r
			}
		}
	}

	// Only basket items that appear in some antecedent can contribute to
	// a match; restricting to them keeps the subset enumeration small.
	matchable := make([]string, 0, len(basket))
	for item := range inBasket {
		if _, ok := ix.anteItems[item]; ok {
			matchable = append(matchable, item)
		}
	}
	sort.Strings(matchable)

	if len(matchable) == 0 {
		return nil
	}

	if len(matchable) <= maxSubsetLookup {
		for mask := 1; mask < 1<<len(matchable); mask++ {
			subset := make([]string, 0, len(matchable))
			for i := range matchable {
				if mask&(1<<i) != 0 {
					subset = append(subset, matchable[i])
				}
			}
			for _, idx := range ix.byAnte[mining.Key(subset)] {
				consider(&ix.rules[idx])
			}
		}
	} else {
		for i := range ix.rules {
			if antecedentMatches(&ix.rules[i], inBasket) {
				consider(&ix.rules[i])
			}
		}
	}

	out := make([]Recommendation, 0, len(best))
	for item, r := range best {
		out = append(out, Recommendation{
			Item:       item,
			Confidence: r.Confidence,
			Lift:       r.Lift,
			Support:    r.Support,
			BasedOn:    r.Antecedent,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Lift != b.Lift {
			return a.Lift > b.Lift
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.BasedOn) != len(b.BasedOn) {
			return len(a.BasedOn) < len(b.BasedOn)
		}
		return a.Item < b.Item
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// betterRule reports whether a should replace b as an item's source rule.
// Ties on lift and confidence go to the smaller antecedent, then to the
// lexicographically smaller antecedent key, so dedup is deterministic.
func betterRule(a, b *Rule) bool {
	if a.Lift != b.Lift {
		return a.Lift > b.Lift
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if len(a.Antecedent) != len(b.Antecedent) {
		return len(a.Antecedent) < len(b.Antecedent)
	}
	return mining.Key(a.Antecedent) < mining.Key(b.Antecedent)
}

// antecedentMatches reports whether every antecedent item is in the basket.
func antecedentMatches(r *Rule, basket map[string]struct{}) bool {
	for _, item := range r.Antecedent {
		if _, ok := basket[item]; !ok {
			return false
		}
	}
	return true
}

// SearchItems returns catalogue items containing the query substring,
// case-insensitive, capped at limit.
func (ix *Index) SearchItems(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	var out []string
	for _, item := range ix.catalogue {
		if strings.Contains(strings.ToLower(item), q) {
			out = append(out, item)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Catalogue returns the sorted list of items known at training time. The
// returned slice must not be modified.
func (ix *Index) Catalogue() []string {
	return ix.catalogue
}

// TopProducts ranks items by how many rule consequents they appear in.
func (ix *Index) TopProducts(n int) []ProductStat {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range ix.rules {
		for _, item := range r.Consequent {
			counts[item]++
		}
	}
	out := make([]ProductStat, 0, len(counts))
	for item, c := range counts {
		out = append(out, ProductStat{Item: item, RuleAppearances: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RuleAppearances != out[j].RuleAppearances {
			return out[i].RuleAppearances > out[j].RuleAppearances
		}
		return out[i].Item < out[j].Item
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
