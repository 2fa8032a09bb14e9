package search

import (
	"slices"
	"sort"
	"strings"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
)

// Filter is the state of a list view: an optional category, any number of
// selected tags, and a free-text query.
type Filter struct {
	Category string
	Tags     []string
	Query    string
}

func ToolKeys() []Key[catalog.Tool] {
	return []Key[catalog.Tool]{
		{Name: "name", Weight: 0.3, Values: func(t catalog.Tool) []string { return []string{t.Name} }},
		{Name: "summary", Weight: 0.2, Values: func(t catalog.Tool) []string { return []string{t.Summary} }},
		{Name: "tags", Weight: 0.2, Values: func(t catalog.Tool) []string { return t.Tags }},
		{Name: "category", Weight: 0.1, Values: func(t catalog.Tool) []string { return []string{string(t.Category)} }},
		{Name: "why", Weight: 0.2, Values: func(t catalog.Tool) []string { return []string{t.Why} }},
	}
}

func TipKeys() []Key[catalog.Tip] {
	return []Key[catalog.Tip]{
		{Name: "title", Weight: 0.3, Values: func(t catalog.Tip) []string { return []string{t.Title} }},
		{Name: "content", Weight: 0.2, Values: func(t catalog.Tip) []string { return []string{t.Content} }},
		{Name: "tags", Weight: 0.2, Values: func(t catalog.Tip) []string { return t.Tags }},
		{Name: "category", Weight: 0.1, Values: func(t catalog.Tip) []string { return []string{string(t.Category)} }},
		{Name: "summary", Weight: 0.2, Values: func(t catalog.Tip) []string { return optional(t.Summary) }},
	}
}

func optional(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}

// FilterCategory keeps items in category. An empty category keeps everything.
func FilterCategory[T catalog.Record](items []T, category string) []T {
	if category == "" {
		return items
	}
	var out []T
	for _, item := range items {
		if string(item.RecordCategory()) == category {
			out = append(out, item)
		}
	}
	return out
}

// FilterTags keeps items carrying at least one of tags. No tags keeps
// everything.
func FilterTags[T catalog.Record](items []T, tags []string) []T {
	if len(tags) == 0 {
		return items
	}
	var out []T
	for _, item := range items {
		if slices.ContainsFunc(item.RecordTags(), func(tag string) bool {
			return slices.Contains(tags, tag)
		}) {
			out = append(out, item)
		}
	}
	return out
}

// Apply narrows items by category, then tags, then ranks what is left
// against the query. Without a query the filtered items keep their order.
func Apply[T catalog.Record](items []T, filter Filter, keys []Key[T], opts Options) []T {
	result := FilterCategory(items, filter.Category)
	result = FilterTags(result, filter.Tags)

	query := strings.TrimSpace(filter.Query)
	if query == "" {
		return result
	}
	matches := NewIndex(result, keys, opts).Search(query)
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Item)
	}
	return out
}

func ApplyTools(tools []catalog.Tool, filter Filter, opts Options) []catalog.Tool {
	return Apply(tools, filter, ToolKeys(), opts)
}

func ApplyTips(tips []catalog.Tip, filter Filter, opts Options) []catalog.Tip {
	return Apply(tips, filter, TipKeys(), opts)
}

// AllTags returns the sorted set of tags used by items.
func AllTags[T catalog.Record](items []T) []string {
	var tags []string
	for _, item := range items {
		tags = append(tags, item.RecordTags()...)
	}
	return MergeTags(tags)
}

// MergeTags returns the sorted union of the tag lists.
func MergeTags(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Limit returns at most n items. n <= 0 means no limit.
func Limit[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
