package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const FileName = "toolbox.toml"

type File struct {
	// Path is the absolute path of the file, or "" when none was found and
	// Config holds the defaults.
	Path   string
	Config Config
}

type Config struct {
	Content ContentConfig `toml:"content"`
	Search  SearchConfig  `toml:"search"`
	Links   LinksConfig   `toml:"links"`
}

type ContentConfig struct {
	Tools      string `toml:"tools"`
	Tips       string `toml:"tips"`
	Categories string `toml:"categories"`
}

type SearchConfig struct {
	Threshold float64 `toml:"threshold"`
	Distance  int     `toml:"distance"`
}

type LinksConfig struct {
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Concurrency    int      `toml:"concurrency"`
	RPS            float64  `toml:"rps"`
	UserAgent      string   `toml:"user_agent"`
	Skip           []string `toml:"skip"`
}

func (l LinksConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

func Default() Config {
	return Config{
		Content: ContentConfig{
			Tools:      filepath.Join("src", "data", "tools"),
			Tips:       filepath.Join("src", "data", "tips"),
			Categories: filepath.Join("src", "data", "categories.json"),
		},
		Search: SearchConfig{
			Threshold: 0.3,
			Distance:  100,
		},
		Links: LinksConfig{
			TimeoutSeconds: 10,
			Concurrency:    8,
			RPS:            2,
			UserAgent:      "dev-toolbox-link-checker/1.0",
		},
	}
}

// Load reads toolbox.toml from root. A missing file yields the defaults; keys
// present in the file replace the matching defaults and unknown keys are an
// error.
func Load(root string) (File, error) {
	return ParseFile(filepath.Join(root, FileName), true)
}

// ParseFile reads the config at path. When optional is set a missing file is
// not an error.
func ParseFile(path string, optional bool) (File, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return File{Config: Default()}, nil
		}
		return File{}, err
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(contents))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return File{}, fmt.Errorf("parse %s: %s", path, strict.String())
		}
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return File{}, err
	}
	return File{Path: absPath, Config: cfg}, nil
}

// Resolve returns the content paths made absolute against root.
func (c ContentConfig) Resolve(root string) ContentConfig {
	return ContentConfig{
		Tools:      resolvePath(root, c.Tools),
		Tips:       resolvePath(root, c.Tips),
		Categories: resolvePath(root, c.Categories),
	}
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// FindRoot walks up from dir to the first directory holding toolbox.toml or
// src/data. It returns dir itself when no ancestor qualifies.
func FindRoot(dir string) string {
	current := dir
	for {
		if exists(filepath.Join(current, FileName)) || isDir(filepath.Join(current, "src", "data")) {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
