package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Content.Tools) == "" {
		return errors.New("content.tools must not be empty")
	}
	if strings.TrimSpace(cfg.Content.Tips) == "" {
		return errors.New("content.tips must not be empty")
	}
	if strings.TrimSpace(cfg.Content.Categories) == "" {
		return errors.New("content.categories must not be empty")
	}
	if cfg.Search.Threshold < 0 || cfg.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be between 0 and 1, got %v", cfg.Search.Threshold)
	}
	if cfg.Search.Distance < 0 {
		return fmt.Errorf("search.distance must not be negative, got %d", cfg.Search.Distance)
	}
	return ValidateLinks(cfg.Links)
}

func ValidateLinks(links LinksConfig) error {
	if links.TimeoutSeconds < 0 {
		return fmt.Errorf("links.timeout_seconds must not be negative, got %d", links.TimeoutSeconds)
	}
	if links.Concurrency < 0 {
		return fmt.Errorf("links.concurrency must not be negative, got %d", links.Concurrency)
	}
	if links.RPS < 0 {
		return fmt.Errorf("links.rps must not be negative, got %v", links.RPS)
	}
	for _, pattern := range links.Skip {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("links.skip has invalid pattern %q", pattern)
		}
	}
	return nil
}
