package content

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
)

type CategoryProblem struct {
	Message string
}

// LoadCategories reads the categories file as a raw JSON value. Read
// failures are infrastructure errors; malformed JSON is a parse error.
func LoadCategories(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InfrastructureError{Path: path, Err: err}
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("json invalid: %w", err)}
	}
	return raw, nil
}

// CheckCategories validates the shape of the categories file: a non-empty
// array of unique strings drawn from the fixed category set.
func CheckCategories(raw any) []CategoryProblem {
	list, ok := raw.([]any)
	if !ok {
		return []CategoryProblem{{Message: "categories.json should be an array"}}
	}
	if len(list) == 0 {
		return []CategoryProblem{{Message: "categories.json should not be empty"}}
	}

	var out []CategoryProblem
	seen := map[string]bool{}
	duplicate := false
	for _, item := range list {
		name, ok := item.(string)
		if !ok {
			out = append(out, CategoryProblem{Message: fmt.Sprintf("category %v is not a string", item)})
			continue
		}
		if seen[name] {
			duplicate = true
		}
		seen[name] = true
		if !catalog.IsCategory(name) {
			out = append(out, CategoryProblem{Message: fmt.Sprintf("unknown category %q", name)})
		}
	}
	if duplicate {
		out = append(out, CategoryProblem{Message: "categories.json contains duplicate categories"})
	}
	return out
}
