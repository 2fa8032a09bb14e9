package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/schema"
)

func validTool() map[string]any {
	return map[string]any{
		"id":              "react",
		"name":            "React",
		"website":         "https://react.dev",
		"category":        "Frontend",
		"tags":            []any{"ui", "library"},
		"summary":         "A JavaScript library for building user interfaces.",
		"why":             "Component model with a huge ecosystem.",
		"pricing":         "Open Source",
		"getting_started": "npm create vite@latest",
		"added_by":        map[string]any{"name": "Ada", "date": "2024-05-01"},
		"github":          "https://github.com/facebook/react",
	}
}

func validTip() map[string]any {
	return map[string]any{
		"id":       "git-bisect",
		"title":    "Find regressions with git bisect",
		"category": "DevEx",
		"tags":     []any{"git"},
		"added_by": map[string]any{"name": "Ada", "date": "2024-05-01"},
	}
}

type ruleHit struct {
	Field string
	Rule  schema.Rule
}

func hits(violations []schema.Violation) []ruleHit {
	out := make([]ruleHit, 0, len(violations))
	for _, v := range violations {
		out = append(out, ruleHit{Field: v.Field, Rule: v.Rule})
	}
	return out
}

func TestValidateTool(t *testing.T) {
	t.Parallel()

	t.Run("valid record has no violations", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, schema.ValidateTool(validTool()))
	})

	t.Run("each missing required field yields exactly one violation", func(t *testing.T) {
		t.Parallel()
		for _, field := range []string{"id", "name", "website", "category", "tags", "summary", "why", "pricing", "getting_started", "added_by"} {
			record := validTool()
			delete(record, field)
			got := hits(schema.ValidateTool(record))
			assert.Equal(t, []ruleHit{{Field: field, Rule: schema.RuleRequired}}, got, field)
		}
	})

	t.Run("optional links may be absent", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		delete(record, "github")
		assert.Empty(t, schema.ValidateTool(record))
	})

	t.Run("null counts as missing", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		record["why"] = nil
		assert.Equal(t, []ruleHit{{Field: "why", Rule: schema.RuleRequired}}, hits(schema.ValidateTool(record)))
	})

	t.Run("reports constraint rules with field paths", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		record["id"] = "React_JS"
		record["website"] = "react.dev"
		record["category"] = "Frontnd"
		record["tags"] = []any{}
		record["summary"] = strings.Repeat("é", 201)
		record["pricing"] = "Cheap"
		record["added_by"] = map[string]any{"name": "Ada", "date": "05/01/2024"}
		record["docs"] = "ftp://react.dev/docs"

		got := hits(schema.ValidateTool(record))
		assert.Equal(t, []ruleHit{
			{Field: "id", Rule: schema.RulePattern},
			{Field: "website", Rule: schema.RuleURL},
			{Field: "category", Rule: schema.RuleEnum},
			{Field: "tags", Rule: schema.RuleMinItems},
			{Field: "summary", Rule: schema.RuleMaxLength},
			{Field: "pricing", Rule: schema.RuleEnum},
			{Field: "added_by.date", Rule: schema.RulePattern},
			{Field: "docs", Rule: schema.RuleURL},
		}, got)
	})

	t.Run("summary length counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		record["summary"] = strings.Repeat("é", 200)
		assert.Empty(t, schema.ValidateTool(record))
	})

	t.Run("reports wrong primitive types", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		record["name"] = 42.0
		record["tags"] = []any{"ui", 7.0}
		record["added_by"] = "Ada"

		got := hits(schema.ValidateTool(record))
		assert.Equal(t, []ruleHit{
			{Field: "name", Rule: schema.RuleType},
			{Field: "tags[1]", Rule: schema.RuleType},
			{Field: "added_by", Rule: schema.RuleType},
		}, got)
	})

	t.Run("rejects impossible dates", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		record["added_by"] = map[string]any{"name": "Ada", "date": "2024-02-30"}
		assert.Equal(t, []ruleHit{{Field: "added_by.date", Rule: schema.RuleDate}}, hits(schema.ValidateTool(record)))
	})

	t.Run("reports unknown fields sorted after declared ones", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		record["stars"] = 10.0
		record["author"] = "x"
		assert.Equal(t, []ruleHit{
			{Field: "author", Rule: schema.RuleUnknown},
			{Field: "stars", Rule: schema.RuleUnknown},
		}, hits(schema.ValidateTool(record)))
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		t.Parallel()
		record := validTool()
		record["summary"] = strings.Repeat("a", 300)
		before, err := json.Marshal(record)
		require.NoError(t, err)
		_ = schema.ValidateTool(record)
		after, err := json.Marshal(record)
		require.NoError(t, err)
		assert.JSONEq(t, string(before), string(after))
	})
}

func TestValidateTip(t *testing.T) {
	t.Parallel()

	t.Run("valid tip with body", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, schema.ValidateTip(validTip(), "Run `git bisect start`.\n"))
	})

	t.Run("whitespace-only body is an empty-content violation", func(t *testing.T) {
		t.Parallel()
		got := hits(schema.ValidateTip(validTip(), " \n\t\n"))
		assert.Equal(t, []ruleHit{{Field: "content", Rule: schema.RuleEmpty}}, got)
	})

	t.Run("summary is optional but bounded", func(t *testing.T) {
		t.Parallel()
		record := validTip()
		record["summary"] = strings.Repeat("x", 201)
		got := hits(schema.ValidateTip(record, "body"))
		assert.Equal(t, []ruleHit{{Field: "summary", Rule: schema.RuleMaxLength}}, got)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		record := validTip()
		delete(record, "title")
		got := hits(schema.ValidateTip(record, "body"))
		assert.Equal(t, []ruleHit{{Field: "title", Rule: schema.RuleRequired}}, got)
	})
}

func TestEnumViolationSuggestsCategory(t *testing.T) {
	t.Parallel()

	record := validTool()
	record["category"] = "frontend"
	violations := schema.ValidateTool(record)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, `did you mean "Frontend"`)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	options := catalog.CategoryNames()
	assert.Equal(t, "Observability", schema.Suggest("observability", options))
	assert.Equal(t, "Frontend", schema.Suggest("Frntend", options))
	assert.Equal(t, "", schema.Suggest("", options))
	assert.Equal(t, "", schema.Suggest("qqqq", options))
}

func TestJSONSchema(t *testing.T) {
	t.Parallel()

	t.Run("tool schema carries enums and required fields", func(t *testing.T) {
		t.Parallel()
		data, err := schema.JSONSchema(catalog.KindTool)
		require.NoError(t, err)

		var doc struct {
			Required   []string                  `json:"required"`
			Properties map[string]map[string]any `json:"properties"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Contains(t, doc.Required, "getting_started")
		assert.NotContains(t, doc.Required, "github")
		assert.Len(t, doc.Properties["category"]["enum"], 16)
		assert.Equal(t, "^[a-z0-9-]+$", doc.Properties["id"]["pattern"])
		assert.Equal(t, "Why the team recommends it.", doc.Properties["why"]["description"])
	})

	t.Run("tip schema", func(t *testing.T) {
		t.Parallel()
		data, err := schema.JSONSchema(catalog.KindTip)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"title"`)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()
		_, err := schema.JSONSchema(catalog.Kind("videos"))
		require.Error(t, err)
	})
}
