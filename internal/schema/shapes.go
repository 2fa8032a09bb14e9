package schema

import (
	"regexp"
	"strings"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
)

const SummaryMaxLength = 200

var (
	idPattern   = regexp.MustCompile(`^[a-z0-9-]+$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func addedByField() Field {
	return Field{
		Name:     "added_by",
		Type:     TypeObject,
		Required: true,
		Fields: []Field{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "date", Type: TypeString, Required: true, Pattern: datePattern, Date: true},
		},
	}
}

// ToolShape describes a tool JSON file.
func ToolShape() Shape {
	return Shape{
		Name: "tool",
		Fields: []Field{
			{Name: "id", Type: TypeString, Required: true, Pattern: idPattern},
			{Name: "name", Type: TypeString, Required: true},
			{Name: "website", Type: TypeString, Required: true, URL: true},
			{Name: "category", Type: TypeString, Required: true, Enum: catalog.CategoryNames()},
			{Name: "tags", Type: TypeArray, Required: true, MinItems: 1, Items: TypeString},
			{Name: "summary", Type: TypeString, Required: true, MaxLength: SummaryMaxLength},
			{Name: "why", Type: TypeString, Required: true},
			{Name: "pricing", Type: TypeString, Required: true, Enum: catalog.PricingNames()},
			{Name: "getting_started", Type: TypeString, Required: true},
			addedByField(),
			{Name: "github", Type: TypeString, URL: true},
			{Name: "docs", Type: TypeString, URL: true},
		},
	}
}

// TipShape describes the frontmatter block of a tip file.
func TipShape() Shape {
	return Shape{
		Name: "tip",
		Fields: []Field{
			{Name: "id", Type: TypeString, Required: true, Pattern: idPattern},
			{Name: "title", Type: TypeString, Required: true},
			{Name: "category", Type: TypeString, Required: true, Enum: catalog.CategoryNames()},
			{Name: "tags", Type: TypeArray, Required: true, MinItems: 1, Items: TypeString},
			addedByField(),
			{Name: "summary", Type: TypeString, MaxLength: SummaryMaxLength},
		},
	}
}

func ShapeFor(kind catalog.Kind) Shape {
	if kind == catalog.KindTip {
		return TipShape()
	}
	return ToolShape()
}

func ValidateTool(record map[string]any) []Violation {
	return Validate(ToolShape(), record)
}

func ValidateTipFrontmatter(record map[string]any) []Violation {
	return Validate(TipShape(), record)
}

// ValidateTip checks the frontmatter and requires a non-blank body.
func ValidateTip(frontmatter map[string]any, body string) []Violation {
	out := ValidateTipFrontmatter(frontmatter)
	if strings.TrimSpace(body) == "" {
		out = append(out, Violation{Field: "content", Rule: RuleEmpty, Message: "tip content cannot be empty"})
	}
	return out
}
