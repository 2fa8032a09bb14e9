package config

import "strings"

// MergeLinks applies the non-zero fields of override on top of base. Skip
// patterns are appended.
func MergeLinks(base, override LinksConfig) LinksConfig {
	out := base
	if override.TimeoutSeconds != 0 {
		out.TimeoutSeconds = override.TimeoutSeconds
	}
	if override.Concurrency != 0 {
		out.Concurrency = override.Concurrency
	}
	if override.RPS != 0 {
		out.RPS = override.RPS
	}
	if strings.TrimSpace(override.UserAgent) != "" {
		out.UserAgent = override.UserAgent
	}
	if len(override.Skip) > 0 {
		out.Skip = append(append([]string{}, base.Skip...), override.Skip...)
	}
	return out
}
