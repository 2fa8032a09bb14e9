package catalog

import "slices"

type Kind string

const (
	KindTool Kind = "tools"
	KindTip  Kind = "tips"
)

// Ext is the file extension (without dot) records of the kind are authored in.
func (k Kind) Ext() string {
	if k == KindTip {
		return "md"
	}
	return "json"
}

func (k Kind) Singular() string {
	if k == KindTip {
		return "tip"
	}
	return "tool"
}

func ParseKind(value string) (Kind, bool) {
	switch value {
	case "tools", "tool":
		return KindTool, true
	case "tips", "tip":
		return KindTip, true
	}
	return "", false
}

type Category string

var categories = []Category{
	"AI",
	"Backend",
	"Build",
	"CLI",
	"Cloud",
	"Collab",
	"Data",
	"DevEx",
	"Frontend",
	"Infra",
	"Mobile",
	"Observability",
	"Performance",
	"Security",
	"Testing",
	"UX",
}

func CategoryNames() []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}

func IsCategory(value string) bool {
	return slices.Contains(categories, Category(value))
}

type Pricing string

const (
	PricingFree       Pricing = "Free"
	PricingFreemium   Pricing = "Freemium"
	PricingPaid       Pricing = "Paid"
	PricingOpenSource Pricing = "Open Source"
)

func PricingNames() []string {
	return []string{string(PricingFree), string(PricingFreemium), string(PricingPaid), string(PricingOpenSource)}
}

type AddedBy struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Date string `json:"date" yaml:"date" toml:"date" jsonschema:"pattern=^\\d{4}-\\d{2}-\\d{2}$"`
}

type Tool struct {
	ID             string   `json:"id" jsonschema:"pattern=^[a-z0-9-]+$" jsonschema_description:"Lowercase slug; must match the file name."`
	Name           string   `json:"name"`
	Website        string   `json:"website" jsonschema:"format=uri"`
	Category       Category `json:"category"`
	Tags           []string `json:"tags" jsonschema:"minItems=1"`
	Summary        string   `json:"summary" jsonschema:"maxLength=200" jsonschema_description:"One-line description shown in lists."`
	Why            string   `json:"why" jsonschema_description:"Why the team recommends it."`
	Pricing        Pricing  `json:"pricing"`
	GettingStarted string   `json:"getting_started" jsonschema_description:"Shortest path to trying it."`
	AddedBy        AddedBy  `json:"added_by"`
	GitHub         string   `json:"github,omitempty" jsonschema:"format=uri"`
	Docs           string   `json:"docs,omitempty" jsonschema:"format=uri"`
}

// TipFrontmatter is the metadata block at the top of a tip file.
type TipFrontmatter struct {
	ID       string   `json:"id" yaml:"id" toml:"id" jsonschema:"pattern=^[a-z0-9-]+$" jsonschema_description:"Lowercase slug; must match the file name."`
	Title    string   `json:"title" yaml:"title" toml:"title"`
	Category Category `json:"category" yaml:"category" toml:"category"`
	Tags     []string `json:"tags" yaml:"tags" toml:"tags" jsonschema:"minItems=1"`
	AddedBy  AddedBy  `json:"added_by" yaml:"added_by" toml:"added_by"`
	Summary  string   `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty" jsonschema:"maxLength=200"`
}

type Tip struct {
	TipFrontmatter
	Content string `json:"content"`
}

// Record is implemented by every loaded catalog entry.
type Record interface {
	RecordID() string
	RecordCategory() Category
	RecordTags() []string
}

func (t Tool) RecordID() string         { return t.ID }
func (t Tool) RecordCategory() Category { return t.Category }
func (t Tool) RecordTags() []string     { return t.Tags }

func (t Tip) RecordID() string         { return t.ID }
func (t Tip) RecordCategory() Category { return t.Category }
func (t Tip) RecordTags() []string     { return t.Tags }

// Collection is the validated content handed to list views.
type Collection struct {
	Tools []Tool `json:"tools"`
	Tips  []Tip  `json:"tips"`
}

// Tool returns the tool with id, if loaded.
func (c Collection) Tool(id string) (Tool, bool) {
	i := slices.IndexFunc(c.Tools, func(t Tool) bool { return t.ID == id })
	if i < 0 {
		return Tool{}, false
	}
	return c.Tools[i], true
}

// Tip returns the tip with id, if loaded.
func (c Collection) Tip(id string) (Tip, bool) {
	i := slices.IndexFunc(c.Tips, func(t Tip) bool { return t.ID == id })
	if i < 0 {
		return Tip{}, false
	}
	return c.Tips[i], true
}
