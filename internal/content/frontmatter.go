package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

var errNoFrontmatter = errors.New("missing frontmatter block")

// SplitFrontmatter separates the leading metadata block of a Markdown
// document from its body. The block is YAML between "---" lines or TOML
// between "+++" lines.
func SplitFrontmatter(contents string) (map[string]any, string, error) {
	contents = strings.TrimPrefix(contents, "\ufeff")
	contents = strings.ReplaceAll(contents, "\r\n", "\n")
	lines := strings.Split(contents, "\n")

	first := strings.TrimSpace(lines[0])
	if first != yamlDelimiter && first != tomlDelimiter {
		return nil, "", errNoFrontmatter
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == first {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, "", fmt.Errorf("frontmatter start found but no closing %s", first)
	}

	block := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")

	raw := map[string]any{}
	if first == yamlDelimiter {
		if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
			return nil, "", fmt.Errorf("frontmatter invalid yaml: %w", err)
		}
	} else {
		if err := toml.Unmarshal([]byte(block), &raw); err != nil {
			return nil, "", fmt.Errorf("frontmatter invalid toml: %w", err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return normalize(raw).(map[string]any), body, nil
}

// normalize rewrites decoder-specific values into the JSON shapes the
// validator understands: nested maps keyed by string, []any, and dates as
// YYYY-MM-DD text.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	case time.Time:
		return v.Format(time.DateOnly)
	case toml.LocalDate:
		return v.String()
	case toml.LocalDateTime:
		return v.LocalDate.String()
	default:
		return v
	}
}
