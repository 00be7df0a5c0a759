// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

// Package mining implements frequent-itemset mining over retail baskets
// using the FP-Growth algorithm.
//
// # Pipeline
//
// Mining is a three-stage batch pipeline:
//
//  1. Encode: count global item frequencies, drop items below the minimum
//     support threshold, and reorder every transaction by descending global
//     frequency so shared prefixes align.
//  2. Build: insert the encoded transactions into a compressed prefix tree
//     (FP-tree) that merges common prefixes and maintains a header index
//     linking every occurrence of an item.
//  3. Mine: walk the header index least-frequent-first, project a
//     conditional pattern base per item, build a conditional tree, and
//     recurse, emitting a frequent itemset at every level.
//
// The compressed tree avoids the candidate-generation blow-up of Apriori:
// two baskets sharing a prefix share the same tree path, so the tree is
// never larger than the sum of transaction lengths and typically far
// smaller.
//
// # Determinism
//
// All orderings carry a deterministic tie-break (first appearance across
// the input), so mining the same transactions with the same thresholds
// always yields the same itemset collection. The miner never emits the
// same itemset twice; processing items least-frequent-first guarantees
// each itemset is anchored in exactly one recursion branch.
//
// # Concurrency
//
// Top-level header items can be mined in parallel: each item's conditional
// recursion only reads data reachable from its own same-item chain, and
// emissions are merged through a mutex-guarded collector. The tree itself
// is never mutated after construction.
package mining
