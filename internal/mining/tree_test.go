// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package mining

import (
	"reflect"
	"testing"
)

func encodeForTest(t *testing.T, transactions [][]string, minSupport float64) *EncodeResult {
	t.Helper()
	res, err := Encode(transactions, minSupport)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	return res
}

func TestBuildTreeSharesPrefixes(t *testing.T) {
	enc := encodeForTest(t, [][]string{
		{"a", "b", "c"},
		{"a", "b", "d"},
		{"a", "e"},
	}, 0.1)

	tr := buildTree(enc)

	// All three transactions start with the most frequent item, so the
	// root has exactly one child with count 3.
	if len(tr.root.children) != 1 {
		t.Fatalf("root has %d children, want 1", len(tr.root.children))
	}
	top := tr.root.children["a"]
	if top == nil || top.count != 3 {
		t.Fatalf("node a = %+v, want count 3", top)
	}

	// b is shared by the first two transactions.
	b := top.children["b"]
	if b == nil || b.count != 2 {
		t.Fatalf("node b = %+v, want count 2", b)
	}
}

func TestSameItemChainCoversAllOccurrences(t *testing.T) {
	enc := encodeForTest(t, [][]string{
		{"a", "c"},
		{"b", "c"},
		{"a", "b", "c"},
	}, 0.1)

	tr := buildTree(enc)

	// c is the most frequent item, so transactions encode as c-first and
	// b ends up under two different prefixes (c and c-a). The chain must
	// visit both nodes and their counts must sum to b's global count.
	total := 0
	nodes := 0
	for node := tr.heads["b"]; node != nil; node = node.next {
		total += node.count
		nodes++
	}
	if total != enc.Counts["b"] {
		t.Errorf("chained counts sum to %d, want %d", total, enc.Counts["b"])
	}
	if nodes != 2 {
		t.Errorf("chain has %d nodes, want 2", nodes)
	}
}

func TestPatternBase(t *testing.T) {
	enc := encodeForTest(t, [][]string{
		{"a", "b", "c"},
		{"a", "c"},
		{"a", "b"},
	}, 0.1)

	tr := buildTree(enc)
	base := tr.patternBase("c")

	// Each base entry is a prefix path weighted by the projecting node's
	// count; total weight equals c's support.
	total := 0
	for _, p := range base {
		if len(p.items) == 0 {
			t.Errorf("pattern base contains empty prefix")
		}
		total += p.count
	}
	if total != enc.Counts["c"] {
		t.Errorf("pattern base weight = %d, want %d", total, enc.Counts["c"])
	}

	// The most frequent item heads the tree and has no prefix at all.
	first := tr.miningOrder()[len(tr.miningOrder())-1]
	if got := tr.patternBase(first); len(got) != 0 {
		t.Errorf("patternBase(%q) = %v, want empty", first, got)
	}
}

func TestMiningOrderIsLeastFrequentFirst(t *testing.T) {
	enc := encodeForTest(t, [][]string{
		{"a", "b", "c"},
		{"a", "b"},
		{"a"},
	}, 0.1)

	tr := buildTree(enc)
	got := tr.miningOrder()
	want := []string{"c", "b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("miningOrder() = %v, want %v", got, want)
	}
}

func TestSinglePathDetection(t *testing.T) {
	enc := encodeForTest(t, [][]string{
		{"a", "b", "c"},
		{"a", "b"},
		{"a"},
	}, 0.1)

	tr := buildTree(enc)
	path, ok := tr.singlePath()
	if !ok {
		t.Fatal("singlePath() = false, want true for chained transactions")
	}

	want := []pathEntry{{"a", 3}, {"b", 2}, {"c", 1}}
	if !reflect.DeepEqual(path, want) {
		t.Errorf("singlePath() = %v, want %v", path, want)
	}
}

func TestSinglePathRejectsBranches(t *testing.T) {
	enc := encodeForTest(t, [][]string{
		{"a", "b"},
		{"a", "c"},
		{"a"},
	}, 0.1)

	tr := buildTree(enc)
	if _, ok := tr.singlePath(); ok {
		t.Error("singlePath() = true for a branching tree")
	}
}

func TestBuildConditionalTreeRefilters(t *testing.T) {
	base := []weightedPath{
		{items: []string{"a", "b"}, count: 2},
		{items: []string{"a"}, count: 1},
	}
	parentRank := map[string]int{"a": 0, "b": 1}

	// minCount 3: only a (total 3) survives, b (total 2) is dropped.
	tr := buildConditionalTree(base, 3, parentRank)
	if tr == nil {
		t.Fatal("buildConditionalTree returned nil with a surviving item")
	}
	if len(tr.counts) != 1 || tr.counts["a"] != 3 {
		t.Errorf("conditional counts = %v, want a:3", tr.counts)
	}

	// minCount 4: nothing survives.
	if got := buildConditionalTree(base, 4, parentRank); got != nil {
		t.Errorf("buildConditionalTree = %+v, want nil when nothing survives", got)
	}
}
