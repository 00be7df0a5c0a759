// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package mining

import (
	"context"
	"sort"
	"sync"
)

// Options controls a mining run.
type Options struct {
	// MaxLen caps the size of emitted itemsets. Zero means unlimited.
	MaxLen int

	// Workers bounds how many top-level header items are mined
	// concurrently. Zero or one mines sequentially.
	Workers int
}

// Mine extracts every frequent itemset from pre-encoded transactions.
// The result is sorted canonically (size, then key) so identical inputs
// always produce identical output regardless of worker scheduling.
//
// Mining can be abandoned wholesale through ctx; partial results are
// discarded.
func Mine(ctx context.Context, enc *EncodeResult, opts Options) ([]Itemset, error) {
	if enc == nil || enc.Total == 0 || len(enc.Counts) == 0 {
		return nil, nil
	}

	t := buildTree(enc)
	if t.empty() {
		return nil, nil
	}

	col := &collector{total: enc.Total, maxLen: opts.MaxLen}

	if path, ok := t.singlePath(); ok {
		emitCombinations(path, nil, opts.MaxLen, col)
		return col.finish(), nil
	}

	items := t.miningOrder()
	workers := opts.Workers
	if workers <= 1 || len(items) < 2 {
		for _, item := range items {
			if err := mineItem(ctx, t, item, nil, enc.MinCount, col); err != nil {
				return nil, err
			}
		}
		return col.finish(), nil
	}

	// Each top-level item's recursion reads only its own same-item chain
	// of the shared, immutable tree, so the items can be mined
	// independently and merged through the collector.
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error
	for _, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(item string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := mineItem(ctx, t, item, nil, enc.MinCount, col); err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
		}(item)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return col.finish(), nil
}

// mineItem emits the itemset anchored at item (the item plus the suffix
// accumulated from enclosing recursion levels) and recurses into the
// item's conditional tree.
func mineItem(ctx context.Context, t *tree, item string, suffix []string, minCount int, col *collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	support := t.counts[item]
	if support < minCount {
		return nil
	}

	anchored := make([]string, 0, len(suffix)+1)
	anchored = append(anchored, suffix...)
	anchored = append(anchored, item)
	col.add(anchored, support)

	base := t.patternBase(item)
	if len(base) == 0 {
		return nil
	}
	cond := buildConditionalTree(base, minCount, t.rank)
	if cond == nil || cond.empty() {
		return nil
	}
	return mineTree(ctx, cond, anchored, minCount, col)
}

// mineTree mines a conditional tree. A tree that has degenerated to a
// single path is enumerated directly; otherwise every header item is
// visited least-frequent-first.
func mineTree(ctx context.Context, t *tree, suffix []string, minCount int, col *collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if path, ok := t.singlePath(); ok {
		emitCombinations(path, suffix, col.maxLen, col)
		return nil
	}

	for _, item := range t.miningOrder() {
		if err := mineItem(ctx, t, item, suffix, minCount, col); err != nil {
			return err
		}
	}
	return nil
}

// emitCombinations enumerates every non-empty sub-combination of a single
// path, combined with the accumulated suffix. Counts along a path are
// non-increasing, so a combination's support is the count of its deepest
// member.
func emitCombinations(path []pathEntry, suffix []string, maxLen int, col *collector) {
	combo := make([]string, 0, len(path))
	var walk func(start int)
	walk = func(start int) {
		for i := start; i < len(path); i++ {
			combo = append(combo, path[i].item)
			full := make([]string, 0, len(combo)+len(suffix))
			full = append(full, suffix...)
			full = append(full, combo...)
			col.add(full, path[i].count)
			if maxLen == 0 || len(full) < maxLen {
				walk(i + 1)
			}
			combo = combo[:len(combo)-1]
		}
	}
	walk(0)
}

// collector accumulates emitted itemsets. Safe for concurrent use.
type collector struct {
	mu     sync.Mutex
	total  int
	maxLen int
	sets   []Itemset
}

// add records one emission. Items are copied and canonicalized, so the
// caller may reuse its backing slice.
func (c *collector) add(items []string, support int) {
	if c.maxLen > 0 && len(items) > c.maxLen {
		return
	}
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)

	c.mu.Lock()
	c.sets = append(c.sets, Itemset{
		Items:        sorted,
		SupportCount: support,
		SupportRatio: float64(support) / float64(c.total),
	})
	c.mu.Unlock()
}

// finish returns the canonically sorted collection.
func (c *collector) finish() []Itemset {
	c.mu.Lock()
	defer c.mu.Unlock()
	SortItemsets(c.sets)
	return c.sets
}
