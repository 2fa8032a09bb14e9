package search

import "unicode"

// epsilon keeps an exact match from zeroing the weighted product.
const epsilon = 2.220446049250313e-16

type cell struct {
	cost  int
	start int
}

// matchScore reports how well pattern occurs anywhere in text. The score is
// the edit distance of the best approximate substring divided by the pattern
// length, plus the substring's start offset divided by distance. Zero is an
// exact match at the start of text. Both inputs must already be lowercased.
func matchScore(pattern, text []rune, opts Options) (float64, bool) {
	m := len(pattern)
	if m == 0 {
		return 0, true
	}
	if opts.Distance > 0 {
		// Matches starting beyond this point cannot stay under the threshold.
		limit := int(opts.Threshold*float64(opts.Distance)) + 2*m + 1
		if len(text) > limit {
			text = text[:limit]
		}
	}
	n := len(text)

	prev := make([]cell, n+1)
	cur := make([]cell, n+1)
	for j := range prev {
		prev[j] = cell{cost: 0, start: j}
	}
	for i := 1; i <= m; i++ {
		cur[0] = cell{cost: i, start: 0}
		for j := 1; j <= n; j++ {
			sub := 1
			if pattern[i-1] == text[j-1] {
				sub = 0
			}
			best := cell{cost: prev[j-1].cost + sub, start: prev[j-1].start}
			if c := prev[j].cost + 1; better(c, prev[j].start, best) {
				best = cell{cost: c, start: prev[j].start}
			}
			if c := cur[j-1].cost + 1; better(c, cur[j-1].start, best) {
				best = cell{cost: c, start: cur[j-1].start}
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}

	score := 2.0
	for j := 0; j <= n; j++ {
		s := scoreOf(prev[j], m, opts.Distance)
		if s < score {
			score = s
		}
	}
	if score > opts.Threshold {
		return score, false
	}
	return score, true
}

func better(cost, start int, than cell) bool {
	if cost != than.cost {
		return cost < than.cost
	}
	return start < than.start
}

func scoreOf(c cell, m, distance int) float64 {
	s := float64(c.cost) / float64(m)
	if distance > 0 {
		s += float64(c.start) / float64(distance)
	}
	return s
}

func lower(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}
