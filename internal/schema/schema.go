// Package schema validates parsed catalog records against declarative shapes.
//
// A Shape lists fields and the constraints each one carries. Validate walks the
// shape in declaration order and reports one Violation per broken constraint,
// identified by field path and Rule so callers never match on message text.
package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

type Rule string

const (
	RuleRequired  Rule = "required"
	RuleType      Rule = "type"
	RulePattern   Rule = "pattern"
	RuleEnum      Rule = "enum"
	RuleMinItems  Rule = "min_items"
	RuleMaxLength Rule = "max_length"
	RuleURL       Rule = "url"
	RuleDate      Rule = "date"
	RuleEmpty     Rule = "empty"
	RuleUnknown   Rule = "unknown"
)

type Type string

const (
	TypeString Type = "string"
	TypeArray  Type = "array"
	TypeObject Type = "object"
)

// Field declares one property of a shape. Zero-valued constraints are not checked.
type Field struct {
	Name      string
	Type      Type
	Required  bool
	Pattern   *regexp.Regexp
	Date      bool
	Enum      []string
	MinItems  int
	MaxLength int
	URL       bool
	// Items is the element type of an array field.
	Items Type
	// Fields are the properties of an object field.
	Fields []Field
}

type Shape struct {
	Name   string
	Fields []Field
	// AllowUnknown disables the unknown-field check.
	AllowUnknown bool
}

type Violation struct {
	Field   string
	Rule    Rule
	Message string
}

func (v Violation) String() string {
	if v.Field == "" {
		return fmt.Sprintf("%s: %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("%s: %s: %s", v.Field, v.Rule, v.Message)
}

// Validate checks record against shape. The record is never modified.
func Validate(shape Shape, record map[string]any) []Violation {
	var out []Violation
	validateObject(&out, "", shape.Fields, shape.AllowUnknown, record)
	return out
}

func validateObject(out *[]Violation, prefix string, fields []Field, allowUnknown bool, record map[string]any) {
	declared := make(map[string]bool, len(fields))
	for _, field := range fields {
		declared[field.Name] = true
		value, present := record[field.Name]
		validateField(out, joinPath(prefix, field.Name), field, value, present && value != nil)
	}
	if allowUnknown {
		return
	}
	var unknown []string
	for key := range record {
		if !declared[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		add(out, joinPath(prefix, key), RuleUnknown, "field is not part of the schema")
	}
}

func validateField(out *[]Violation, path string, field Field, value any, present bool) {
	if !present {
		if field.Required {
			add(out, path, RuleRequired, "is required")
		}
		return
	}

	switch field.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			add(out, path, RuleType, "must be a string, got "+typeName(value))
			return
		}
		validateString(out, path, field, s)
	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			add(out, path, RuleType, "must be an array, got "+typeName(value))
			return
		}
		if field.MinItems > 0 && len(items) < field.MinItems {
			add(out, path, RuleMinItems, fmt.Sprintf("must contain at least %d item(s), got %d", field.MinItems, len(items)))
		}
		if field.Items == TypeString {
			for i, item := range items {
				if _, ok := item.(string); !ok {
					add(out, fmt.Sprintf("%s[%d]", path, i), RuleType, "must be a string, got "+typeName(item))
				}
			}
		}
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			add(out, path, RuleType, "must be an object, got "+typeName(value))
			return
		}
		validateObject(out, path, field.Fields, false, obj)
	}
}

func validateString(out *[]Violation, path string, field Field, s string) {
	if field.Pattern != nil && !field.Pattern.MatchString(s) {
		add(out, path, RulePattern, fmt.Sprintf("%q does not match %s", s, field.Pattern.String()))
	} else if field.Date {
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			add(out, path, RuleDate, fmt.Sprintf("%q is not a calendar date", s))
		}
	}
	if len(field.Enum) > 0 && !contains(field.Enum, s) {
		msg := fmt.Sprintf("%q is not one of %s", s, strings.Join(field.Enum, ", "))
		if hint := Suggest(s, field.Enum); hint != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		add(out, path, RuleEnum, msg)
	}
	if field.MaxLength > 0 {
		if n := utf8.RuneCountInString(s); n > field.MaxLength {
			add(out, path, RuleMaxLength, fmt.Sprintf("must be at most %d characters, got %d", field.MaxLength, n))
		}
	}
	if field.URL && !isURL(s) {
		add(out, path, RuleURL, fmt.Sprintf("%q is not a valid http(s) URL", s))
	}
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func add(out *[]Violation, path string, rule Rule, message string) {
	*out = append(*out, Violation{Field: path, Rule: rule, Message: message})
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", value)
	}
}
