package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
)

// JSONSchema renders the JSON Schema document for records of kind, suitable
// for editor integration on the content directories.
func JSONSchema(kind catalog.Kind) ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Mapper:         mapEnums,
	}

	var s *jsonschema.Schema
	switch kind {
	case catalog.KindTool:
		s = r.Reflect(&catalog.Tool{})
		s.Title = "Tool"
	case catalog.KindTip:
		s = r.Reflect(&catalog.TipFrontmatter{})
		s.Title = "Tip frontmatter"
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return json.MarshalIndent(s, "", "  ")
}

func mapEnums(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(catalog.Category("")):
		return &jsonschema.Schema{Type: "string", Enum: toAny(catalog.CategoryNames())}
	case reflect.TypeOf(catalog.Pricing("")):
		return &jsonschema.Schema{Type: "string", Enum: toAny(catalog.PricingNames())}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
