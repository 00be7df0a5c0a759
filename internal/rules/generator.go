// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package rules

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketmine/internal/mining"
)

// maxConviction caps the conviction metric for rules with confidence 1,
// where the true value diverges to infinity.
const maxConviction = 999.0

// Rule is one association rule with its quality metrics. Antecedent and
// consequent are disjoint, and their union is a frequent itemset.
type Rule struct {
	// Antecedent is the "if" side of the rule, sorted lexicographically.
	Antecedent []string `json:"antecedent"`

	// Consequent is the "then" side of the rule, sorted lexicographically.
	Consequent []string `json:"consequent"`

	// Support is the fraction of transactions containing both sides.
	Support float64 `json:"support"`

	// Confidence is the conditional probability of the consequent given
	// the antecedent.
	Confidence float64 `json:"confidence"`

	// Lift is confidence over the consequent's baseline support. Values
	// above 1 indicate positive association.
	Lift float64 `json:"lift"`

	// Leverage is the difference between observed and expected co-support.
	Leverage float64 `json:"leverage"`

	// Conviction measures implication strength, capped at 999 when
	// confidence reaches 1.
	Conviction float64 `json:"conviction"`
}

// Config holds the rule quality thresholds applied at generation time.
type Config struct {
	// MinConfidence is the minimum confidence a rule must reach, in [0, 1].
	MinConfidence float64

	// MinLift is the minimum lift a rule must reach. Typically above 1 to
	// report only positive associations.
	MinLift float64
}

// Generate expands frequent itemsets of size >= 2 into association rules
// and filters them by the configured thresholds. The result is in
// canonical order (lift desc, confidence desc, antecedent size asc).
//
// An itemset whose antecedent or consequent is missing from the support
// table indicates a miner bug: a correct miner preserves all frequent
// subsets, not only maximal ones. Such partitions are skipped and logged
// rather than aborting the run.
func Generate(itemsets []mining.Itemset, cfg Config, logger zerolog.Logger) []Rule {
	support := make(map[string]float64, len(itemsets))
	for _, set := range itemsets {
		support[set.Key()] = set.SupportRatio
	}

	var out []Rule
	skipped := 0
	for _, set := range itemsets {
		k := len(set.Items)
		if k < 2 {
			continue
		}

		// Every proper non-empty subset becomes an antecedent once; the
		// bitmask walks all 2^k - 2 partitions.
		for mask := 1; mask < (1<<k)-1; mask++ {
			antecedent := make([]string, 0, k-1)
			consequent := make([]string, 0, k-1)
			for i := 0; i < k; i++ {
				if mask&(1<<i) != 0 {
					antecedent = append(antecedent, set.Items[i])
				} else {
					consequent = append(consequent, set.Items[i])
				}
			}

			anteSupport, ok := support[mining.Key(antecedent)]
			if !ok || anteSupport == 0 {
				skipped++
				continue
			}
			consSupport, ok := support[mining.Key(consequent)]
			if !ok || consSupport == 0 {
				skipped++
				continue
			}

			confidence := set.SupportRatio / anteSupport
			lift := confidence / consSupport
			if confidence < cfg.MinConfidence || lift < cfg.MinLift {
				continue
			}

			conviction := maxConviction
			if confidence < 1 {
				conviction = (1 - consSupport) / (1 - confidence)
				if conviction > maxConviction {
					conviction = maxConviction
				}
			}

			out = append(out, Rule{
				Antecedent: antecedent,
				Consequent: consequent,
				Support:    set.SupportRatio,
				Confidence: confidence,
				Lift:       lift,
				Leverage:   set.SupportRatio - anteSupport*consSupport,
				Conviction: conviction,
			})
		}
	}

	if skipped > 0 {
		logger.Error().
			Int("skipped", skipped).
			Msg("partitions with missing subset support skipped; frequent-itemset table is incomplete")
	}

	SortCanonical(out)
	return out
}

// SortCanonical orders rules by lift descending, then confidence
// descending, then antecedent size ascending. Remaining ties fall back to
// the antecedent and consequent keys so the order is fully deterministic.
func SortCanonical(rs []Rule) {
	sort.Slice(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.Lift != b.Lift {
			return a.Lift > b.Lift
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.Antecedent) != len(b.Antecedent) {
			return len(a.Antecedent) < len(b.Antecedent)
		}
		ka, kb := mining.Key(a.Antecedent), mining.Key(b.Antecedent)
		if ka != kb {
			return ka < kb
		}
		return mining.Key(a.Consequent) < mining.Key(b.Consequent)
	})
}
