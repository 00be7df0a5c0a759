// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package mining

import "sort"

// treeNode is a single FP-tree node. The parent link allows prefix-path
// reconstruction; the next link chains nodes holding the same item for
// the header index. Invariant: a node's count equals the sum of its
// children's counts plus the transactions terminating exactly at it.
type treeNode struct {
	item     string
	count    int
	parent   *treeNode
	children map[string]*treeNode
	next     *treeNode
}

// weightedPath is one entry of a conditional pattern base: a prefix path
// together with the count of the node it was projected from.
type weightedPath struct {
	items []string
	count int
}

// tree is a compressed co-occurrence prefix tree with its header index.
// The root is a sentinel holding no item; its count is unused. A tree is
// immutable once built, so concurrent readers need no locking.
type tree struct {
	root *treeNode

	// heads and tails bound each item's same-item chain. Appending at the
	// tail keeps chain order equal to insertion order.
	heads map[string]*treeNode
	tails map[string]*treeNode

	// counts holds each item's total (weighted) count within this tree's
	// source transactions.
	counts map[string]int

	// rank orders items by descending frequency within this tree, ties
	// broken deterministically. Mining visits items in reverse rank order.
	rank map[string]int
}

// newTree prepares an empty tree for the given item universe.
func newTree(counts, rank map[string]int) *tree {
	return &tree{
		root:   &treeNode{children: make(map[string]*treeNode)},
		heads:  make(map[string]*treeNode),
		tails:  make(map[string]*treeNode),
		counts: counts,
		rank:   rank,
	}
}

// buildTree constructs the full FP-tree from encoded transactions.
func buildTree(enc *EncodeResult) *tree {
	t := newTree(enc.Counts, enc.Rank)
	for _, txn := range enc.Transactions {
		t.insert(txn, 1)
	}
	return t
}

// buildConditionalTree constructs the conditional FP-tree for a pattern
// base. Items are re-counted within the base, re-filtered against
// minCount, and re-ordered by their base-local frequency with the parent
// tree's rank as tie-break. Returns nil when nothing in the base
// survives.
func buildConditionalTree(base []weightedPath, minCount int, parentRank map[string]int) *tree {
	counts := make(map[string]int)
	for _, p := range base {
		for _, item := range p.items {
			counts[item] += p.count
		}
	}
	for item, count := range counts {
		if count < minCount {
			delete(counts, item)
		}
	}
	if len(counts) == 0 {
		return nil
	}

	rank := rankByFrequency(counts, parentRank)
	t := newTree(counts, rank)
	filtered := make([]string, 0, 8)
	for _, p := range base {
		filtered = filtered[:0]
		for _, item := range p.items {
			if _, ok := counts[item]; ok {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) == 0 {
			continue
		}
		sort.Slice(filtered, func(i, j int) bool {
			return rank[filtered[i]] < rank[filtered[j]]
		})
		t.insert(filtered, p.count)
	}
	return t
}

// insert walks items from the root, following or creating one child edge
// per item and adding weight to every node visited. Two transactions
// sharing a prefix share the corresponding path; no node is duplicated.
func (t *tree) insert(items []string, weight int) {
	node := t.root
	for _, item := range items {
		child, ok := node.children[item]
		if !ok {
			child = &treeNode{
				item:     item,
				parent:   node,
				children: make(map[string]*treeNode),
			}
			node.children[item] = child
			if tail, ok := t.tails[item]; ok {
				tail.next = child
			} else {
				t.heads[item] = child
			}
			t.tails[item] = child
		}
		child.count += weight
		node = child
	}
}

// empty reports whether the tree holds no transactions.
func (t *tree) empty() bool {
	return len(t.root.children) == 0
}

// miningOrder returns the tree's items least-frequent-first. Processing in
// this order guarantees that by the time an item is visited, every path
// through it is fully accounted for by the more frequent items above it,
// so no itemset is emitted twice.
func (t *tree) miningOrder() []string {
	items := make([]string, 0, len(t.counts))
	for item := range t.counts {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return t.rank[items[i]] > t.rank[items[j]]
	})
	return items
}

// patternBase projects the conditional pattern base for an item: for every
// node in the item's same-item chain, the prefix path from the root down
// to the node's parent, weighted by the node's count.
func (t *tree) patternBase(item string) []weightedPath {
	var base []weightedPath
	for node := t.heads[item]; node != nil; node = node.next {
		var prefix []string
		for p := node.parent; p != nil && p.parent != nil; p = p.parent {
			prefix = append(prefix, p.item)
		}
		if len(prefix) == 0 {
			continue
		}
		// Climbing parents yields the path deepest-first; reverse it.
		for i, j := 0, len(prefix)-1; i < j; i, j = i+1, j-1 {
			prefix[i], prefix[j] = prefix[j], prefix[i]
		}
		base = append(base, weightedPath{items: prefix, count: node.count})
	}
	return base
}

// pathEntry is one node of a degenerate single-path tree.
type pathEntry struct {
	item  string
	count int
}

// singlePath returns the node sequence when the tree has degenerated to a
// single path, which lets the miner enumerate sub-combinations directly
// instead of recursing further. Counts along the path are non-increasing.
func (t *tree) singlePath() ([]pathEntry, bool) {
	var path []pathEntry
	node := t.root
	for {
		if len(node.children) == 0 {
			return path, len(path) > 0
		}
		if len(node.children) > 1 {
			return nil, false
		}
		for _, child := range node.children {
			node = child
		}
		path = append(path, pathEntry{item: node.item, count: node.count})
	}
}
