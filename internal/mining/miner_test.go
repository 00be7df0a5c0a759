// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package mining

import (
	"context"
	"math"
	"reflect"
	"sort"
	"testing"
)

// retailTransactions is the running example: five baskets, min_support
// 0.6 keeps items appearing in at least three of them.
var retailTransactions = [][]string{
	{"bread", "milk"},
	{"bread", "diaper", "beer"},
	{"milk", "diaper", "beer", "eggs"},
	{"bread", "milk", "diaper", "beer"},
	{"bread", "milk", "diaper", "eggs"},
}

func mineForTest(t *testing.T, transactions [][]string, minSupport float64, opts Options) []Itemset {
	t.Helper()
	enc, err := Encode(transactions, minSupport)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	sets, err := Mine(context.Background(), enc, opts)
	if err != nil {
		t.Fatalf("Mine returned error: %v", err)
	}
	return sets
}

func supportByKey(sets []Itemset) map[string]int {
	out := make(map[string]int, len(sets))
	for _, s := range sets {
		out[s.Key()] = s.SupportCount
	}
	return out
}

func TestMineRetailExample(t *testing.T) {
	sets := mineForTest(t, retailTransactions, 0.6, Options{})

	want := map[string]int{
		Key([]string{"bread"}):           4,
		Key([]string{"milk"}):            4,
		Key([]string{"diaper"}):          4,
		Key([]string{"beer"}):            3,
		Key([]string{"bread", "milk"}):   3,
		Key([]string{"bread", "diaper"}): 3,
		Key([]string{"milk", "diaper"}):  3,
		Key([]string{"beer", "diaper"}):  3,
	}

	got := supportByKey(sets)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Mine() = %v, want %v", got, want)
	}

	// Support ratios derive from the full transaction count.
	for _, s := range sets {
		wantRatio := float64(s.SupportCount) / 5.0
		if s.SupportRatio != wantRatio {
			t.Errorf("itemset %v ratio = %v, want %v", s.Items, s.SupportRatio, wantRatio)
		}
	}
}

// bruteForceMine counts support for every subset of the frequent items by
// direct scan. Exponential, fine for test-sized data.
func bruteForceMine(transactions [][]string, minSupport float64) map[string]int {
	total := len(transactions)
	minCount := int(math.Ceil(minSupport * float64(total)))
	if minCount < 1 {
		minCount = 1
	}

	itemSet := make(map[string]struct{})
	for _, txn := range transactions {
		for _, item := range txn {
			itemSet[item] = struct{}{}
		}
	}
	items := make([]string, 0, len(itemSet))
	for item := range itemSet {
		items = append(items, item)
	}
	sort.Strings(items)

	out := make(map[string]int)
	for mask := 1; mask < 1<<len(items); mask++ {
		var subset []string
		for i := range items {
			if mask&(1<<i) != 0 {
				subset = append(subset, items[i])
			}
		}
		count := 0
		for _, txn := range transactions {
			have := make(map[string]struct{}, len(txn))
			for _, item := range txn {
				have[item] = struct{}{}
			}
			ok := true
			for _, item := range subset {
				if _, in := have[item]; !in {
					ok = false
					break
				}
			}
			if ok {
				count++
			}
		}
		if count >= minCount {
			out[Key(subset)] = count
		}
	}
	return out
}

func TestMineMatchesBruteForce(t *testing.T) {
	// Branching dataset with shared prefixes, repeats, and a rare item.
	transactions := [][]string{
		{"a", "b", "c", "d"},
		{"a", "b", "c"},
		{"a", "b", "d"},
		{"a", "c", "d"},
		{"b", "c"},
		{"a", "b"},
		{"d"},
		{"a", "b", "c", "d", "e"},
	}

	for _, minSupport := range []float64{0.25, 0.5, 0.75} {
		got := supportByKey(mineForTest(t, transactions, minSupport, Options{}))
		want := bruteForceMine(transactions, minSupport)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("min_support %v: Mine() = %v, want %v", minSupport, got, want)
		}
	}
}

func TestMineNoDuplicates(t *testing.T) {
	sets := mineForTest(t, retailTransactions, 0.2, Options{})

	seen := make(map[string]struct{}, len(sets))
	for _, s := range sets {
		key := s.Key()
		if _, dup := seen[key]; dup {
			t.Errorf("itemset %v emitted twice", s.Items)
		}
		seen[key] = struct{}{}
	}
}

func TestMineAntimonotonicity(t *testing.T) {
	sets := mineForTest(t, retailTransactions, 0.2, Options{})
	support := supportByKey(sets)

	for _, s := range sets {
		if len(s.Items) < 2 {
			continue
		}
		// Every proper subset must be present with support at least as
		// high as the superset's.
		for mask := 1; mask < (1<<len(s.Items))-1; mask++ {
			var subset []string
			for i := range s.Items {
				if mask&(1<<i) != 0 {
					subset = append(subset, s.Items[i])
				}
			}
			sub, ok := support[Key(subset)]
			if !ok {
				t.Errorf("subset %v of frequent %v missing from output", subset, s.Items)
				continue
			}
			if sub < s.SupportCount {
				t.Errorf("support(%v) = %d < support(%v) = %d", subset, sub, s.Items, s.SupportCount)
			}
		}
	}
}

func TestMineDeterministic(t *testing.T) {
	first := mineForTest(t, retailTransactions, 0.2, Options{})

	for run := 0; run < 3; run++ {
		again := mineForTest(t, retailTransactions, 0.2, Options{})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different output", run)
		}
	}
}

func TestMineParallelMatchesSequential(t *testing.T) {
	sequential := mineForTest(t, retailTransactions, 0.2, Options{})
	parallel := mineForTest(t, retailTransactions, 0.2, Options{Workers: 4})

	if !reflect.DeepEqual(sequential, parallel) {
		t.Errorf("parallel output differs from sequential:\n%v\n%v", parallel, sequential)
	}
}

func TestMineMaxLen(t *testing.T) {
	sets := mineForTest(t, retailTransactions, 0.2, Options{MaxLen: 2})

	for _, s := range sets {
		if len(s.Items) > 2 {
			t.Errorf("itemset %v exceeds max length 2", s.Items)
		}
	}

	// Pairs still come out; the cap only trims longer itemsets.
	got := supportByKey(sets)
	if got[Key([]string{"milk", "diaper"})] != 3 {
		t.Errorf("missing pair {milk,diaper} under MaxLen=2: %v", got)
	}
}

func TestMineEmptyThreshold(t *testing.T) {
	sets := mineForTest(t, retailTransactions, 1.0, Options{})
	if len(sets) != 0 {
		t.Errorf("Mine() = %v, want no itemsets when nothing is frequent", sets)
	}
}

func TestMineSinglePathShortcut(t *testing.T) {
	// Perfectly nested baskets collapse to a single path.
	transactions := [][]string{
		{"a", "b", "c"},
		{"a", "b"},
		{"a"},
	}

	got := supportByKey(mineForTest(t, transactions, 0.3, Options{}))
	want := bruteForceMine(transactions, 0.3)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Mine() = %v, want %v", got, want)
	}
}

func TestMineCanceledContext(t *testing.T) {
	enc, err := Encode(retailTransactions, 0.2)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Mine(ctx, enc, Options{}); err == nil {
		t.Error("Mine() with canceled context returned nil error")
	}
}

func TestMineEmptyInput(t *testing.T) {
	sets, err := Mine(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Mine(nil) returned error: %v", err)
	}
	if len(sets) != 0 {
		t.Errorf("Mine(nil) = %v, want empty", sets)
	}
}
