// Package search ranks catalog entries against a free-text query using
// weighted approximate matching over selected fields.
package search

import (
	"math"
	"sort"
	"strings"
)

// Key selects the text of one field of T. Weights are relative; the index
// normalises them to sum to one.
type Key[T any] struct {
	Name   string
	Weight float64
	Values func(T) []string
}

type Options struct {
	// Threshold is the worst score still counted as a match, in [0, 1].
	Threshold float64
	// Distance scales the penalty for matches far from the start of a value.
	// Zero ignores match location.
	Distance int
}

func DefaultOptions() Options {
	return Options{Threshold: 0.3, Distance: 100}
}

type Result[T any] struct {
	Item T
	// Score is in [0, 1]; lower is more relevant.
	Score float64
	// Index is the item's position in the indexed slice.
	Index int
}

type Index[T any] struct {
	items   []T
	keys    []Key[T]
	weights []float64
	opts    Options
	// fields[i][k] holds the lowercased values of key k for item i.
	fields [][][][]rune
}

func NewIndex[T any](items []T, keys []Key[T], opts Options) *Index[T] {
	idx := &Index[T]{
		items:   items,
		keys:    keys,
		weights: normalizeWeights(keys),
		opts:    opts,
		fields:  make([][][][]rune, len(items)),
	}
	for i, item := range items {
		perKey := make([][][]rune, len(keys))
		for k, key := range keys {
			for _, value := range key.Values(item) {
				perKey[k] = append(perKey[k], lower(value))
			}
		}
		idx.fields[i] = perKey
	}
	return idx
}

func normalizeWeights[T any](keys []Key[T]) []float64 {
	total := 0.0
	for _, key := range keys {
		if key.Weight > 0 {
			total += key.Weight
		}
	}
	out := make([]float64, len(keys))
	for i, key := range keys {
		switch {
		case total == 0:
			out[i] = 1 / float64(len(keys))
		case key.Weight > 0:
			out[i] = key.Weight / total
		}
	}
	return out
}

// Search returns the matching items ordered by ascending score. Items with
// equal scores keep their indexed order.
func (idx *Index[T]) Search(query string) []Result[T] {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	pattern := lower(query)

	var results []Result[T]
	for i, item := range idx.items {
		score, ok := idx.scoreItem(i, pattern)
		if !ok {
			continue
		}
		results = append(results, Result[T]{Item: item, Score: score, Index: i})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score < results[b].Score
	})
	return results
}

func (idx *Index[T]) scoreItem(i int, pattern []rune) (float64, bool) {
	total := 1.0
	matched := false
	for k, values := range idx.fields[i] {
		best, ok := bestValue(pattern, values, idx.opts)
		if !ok {
			continue
		}
		matched = true
		total *= math.Pow(math.Max(best, epsilon), idx.weights[k])
	}
	return total, matched
}

func bestValue(pattern []rune, values [][]rune, opts Options) (float64, bool) {
	best, found := 0.0, false
	for _, value := range values {
		score, ok := matchScore(pattern, value, opts)
		if !ok {
			continue
		}
		if !found || score < best {
			best, found = score, true
		}
	}
	return best, found
}
