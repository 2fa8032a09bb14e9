// Package content reads tool and tip files from the content directories.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
)

// Entry is one scanned file. Exactly one of Raw or Err is set.
type Entry struct {
	Path string
	Raw  map[string]any
	// Body is the Markdown after the frontmatter block (tips only).
	Body string
	Err  error
}

// Name is the file's base name, e.g. "react.json".
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Stem is the base name without extension, e.g. "react".
func (e Entry) Stem() string {
	name := e.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ID returns the record's declared id when it is a string.
func (e Entry) ID() (string, bool) {
	if e.Raw == nil {
		return "", false
	}
	id, ok := e.Raw["id"].(string)
	return id, ok
}

// Pattern is the glob matching files of kind within its directory.
func Pattern(kind catalog.Kind) string {
	return "*." + kind.Ext()
}

// Scan enumerates the files of kind in dir and returns a sequence that reads
// and parses each one as it is consumed. A failure to parse one file is
// carried on its Entry and does not stop the sequence. The returned error is
// always an *InfrastructureError.
func Scan(dir string, kind catalog.Kind) (iter.Seq[Entry], error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &InfrastructureError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &InfrastructureError{Path: dir, Err: errors.New("not a directory")}
	}
	matches, err := doublestar.Glob(os.DirFS(dir), Pattern(kind))
	if err != nil {
		return nil, &InfrastructureError{Path: dir, Err: fmt.Errorf("glob %s: %w", Pattern(kind), err)}
	}

	return func(yield func(Entry) bool) {
		for _, match := range matches {
			path := filepath.Join(dir, match)
			if !yield(parseFile(path, kind)) {
				return
			}
		}
	}, nil
}

func parseFile(path string, kind catalog.Kind) Entry {
	entry := Entry{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		entry.Err = &ParseError{Path: path, Err: err}
		return entry
	}

	switch kind {
	case catalog.KindTip:
		raw, body, err := SplitFrontmatter(string(data))
		if err != nil {
			entry.Err = &ParseError{Path: path, Err: err}
			return entry
		}
		entry.Raw = raw
		entry.Body = body
	default:
		raw, err := ParseTool(data)
		if err != nil {
			entry.Err = &ParseError{Path: path, Err: err}
			return entry
		}
		entry.Raw = raw
	}
	return entry
}

// ParseTool decodes a tool file into its raw JSON object.
func ParseTool(data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("json invalid: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("json invalid: expected an object")
	}
	return obj, nil
}
