// Package linkcheck finds external links in the catalog and checks that they
// still resolve.
package linkcheck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	urlRe           = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
	trailingPunctRe = regexp.MustCompile(`[.,;:!?]$`)
	toolLinkFields  = []string{"website", "github", "docs"}
)

// Class decides whether a broken link fails the run.
type Class string

const (
	ClassCritical  Class = "critical"
	ClassImportant Class = "important"
)

// Classify treats code hosting links as important and everything else, such
// as product websites and docs, as critical.
func Classify(url string) Class {
	if strings.Contains(url, "github.com") {
		return ClassImportant
	}
	return ClassCritical
}

// ToolLinks returns the link fields of a raw tool record in field order.
func ToolLinks(raw map[string]any) []string {
	var out []string
	for _, field := range toolLinkFields {
		if value, ok := raw[field].(string); ok && value != "" {
			out = append(out, value)
		}
	}
	return out
}

// TipLinks returns the URLs found in a Markdown body, with one trailing
// punctuation mark removed from each.
func TipLinks(body string) []string {
	matches := urlRe.FindAllString(body, -1)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, trailingPunctRe.ReplaceAllString(match, ""))
	}
	return out
}

func ExtractToolLinks(tools []map[string]any) []string {
	var out []string
	for _, raw := range tools {
		out = append(out, ToolLinks(raw)...)
	}
	return Dedupe(out)
}

func ExtractTipLinks(bodies []string) []string {
	var out []string
	for _, body := range bodies {
		out = append(out, TipLinks(body)...)
	}
	return Dedupe(out)
}

// Dedupe removes repeated URLs, keeping the first occurrence.
func Dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if seen[url] {
			continue
		}
		seen[url] = true
		out = append(out, url)
	}
	return out
}

// Skip splits urls into those to check and those matching one of the
// doublestar patterns.
func Skip(urls, patterns []string) (keep, skipped []string, err error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, nil, fmt.Errorf("invalid skip pattern %q", pattern)
		}
	}
	for _, url := range urls {
		if matchesAny(url, patterns) {
			skipped = append(skipped, url)
			continue
		}
		keep = append(keep, url)
	}
	return keep, skipped, nil
}

func matchesAny(url string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, url); ok {
			return true
		}
	}
	return false
}
