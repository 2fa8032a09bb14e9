package schema

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest returns the option closest to value, or "" when nothing is close.
func Suggest(value string, options []string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, option := range options {
		if strings.EqualFold(option, value) {
			return option
		}
	}
	matches := fuzzy.Find(value, options)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
