package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/config"
	"github.com/GhostScientist/dev-toolbox/internal/content"
	"github.com/GhostScientist/dev-toolbox/internal/schema"
)

type InitOptions struct {
	Reporter Reporter
}

// Init creates toolbox.toml, the content directories and a categories file
// under root. Existing content is left alone; an existing toolbox.toml is an
// error.
func Init(root string, opts InitOptions) error {
	reporter := ensureReporter(opts.Reporter)

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	configPath := filepath.Join(rootAbs, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists at %s", config.FileName, configPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := config.Default()
	if err := os.WriteFile(configPath, []byte(renderConfigTemplate(cfg)), 0o644); err != nil {
		return err
	}
	reporter.Info("created " + config.FileName)

	paths := cfg.Content.Resolve(rootAbs)
	for _, dir := range []string{paths.Tools, paths.Tips} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if _, err := os.Stat(paths.Categories); errors.Is(err, os.ErrNotExist) {
		data, err := json.MarshalIndent(catalog.CategoryNames(), "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(paths.Categories, append(data, '\n'), 0o644); err != nil {
			return err
		}
		reporter.Info("created " + cfg.Content.Categories)
	}

	reporter.Info("next steps:")
	reporter.Info("1. Run `toolbox new --kind tools <id>` to add a tool.")
	reporter.Info("2. Run `toolbox validate` before opening a pull request.")
	return nil
}

func renderConfigTemplate(cfg config.Config) string {
	var b strings.Builder
	b.WriteString("# Uncomment a setting to change it.\n")
	b.WriteString("[content]\n")
	fmt.Fprintf(&b, "# tools = %q\n", filepath.ToSlash(cfg.Content.Tools))
	fmt.Fprintf(&b, "# tips = %q\n", filepath.ToSlash(cfg.Content.Tips))
	fmt.Fprintf(&b, "# categories = %q\n", filepath.ToSlash(cfg.Content.Categories))
	b.WriteString("\n[search]\n")
	fmt.Fprintf(&b, "# threshold = %v\n", cfg.Search.Threshold)
	fmt.Fprintf(&b, "# distance = %d\n", cfg.Search.Distance)
	b.WriteString("\n[links]\n")
	fmt.Fprintf(&b, "# timeout_seconds = %d\n", cfg.Links.TimeoutSeconds)
	fmt.Fprintf(&b, "# concurrency = %d\n", cfg.Links.Concurrency)
	fmt.Fprintf(&b, "# rps = %v\n", cfg.Links.RPS)
	fmt.Fprintf(&b, "# user_agent = %q\n", cfg.Links.UserAgent)
	b.WriteString("# skip = [\"https://example.com/**\"]\n")
	return b.String()
}

type NewOptions struct {
	Kind     catalog.Kind
	ID       string
	Title    string
	Category string
	Tags     []string
	Pricing  string
	Author   string
	// Prompter fills in a missing category or tags. Without one they must
	// be given.
	Prompter Prompter
	Reporter Reporter
	Now      func() time.Time
}

// New writes a skeleton tool or tip that already passes validation and
// returns its path.
func New(project Project, opts NewOptions) (string, error) {
	reporter := ensureReporter(opts.Reporter)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	dir := project.dir(opts.Kind)
	path := filepath.Join(dir, opts.ID+"."+opts.Kind.Ext())
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	category, err := pickCategory(opts)
	if err != nil {
		return "", err
	}
	tags, err := pickTags(dir, opts)
	if err != nil {
		return "", err
	}

	author := strings.TrimSpace(opts.Author)
	if author == "" {
		author = os.Getenv("USER")
	}
	if author == "" {
		author = "unknown"
	}
	addedBy := catalog.AddedBy{Name: author, Date: now().Format(time.DateOnly)}
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = opts.ID
	}

	var (
		record any
		data   []byte
	)
	if opts.Kind == catalog.KindTip {
		fm := catalog.TipFrontmatter{ID: opts.ID, Title: title, Category: category, Tags: tags, AddedBy: addedBy}
		record = fm
		data, err = renderTip(fm)
	} else {
		pricing := opts.Pricing
		if pricing == "" {
			pricing = string(catalog.PricingOpenSource)
		}
		tool := catalog.Tool{
			ID:             opts.ID,
			Name:           title,
			Website:        "https://example.com",
			Category:       category,
			Tags:           tags,
			Summary:        "One sentence on what " + title + " does.",
			Why:            "Why the team reaches for it.",
			Pricing:        catalog.Pricing(pricing),
			GettingStarted: "How to try it in five minutes.",
			AddedBy:        addedBy,
		}
		record = tool
		data, err = json.MarshalIndent(tool, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return "", err
	}
	if err := checkScaffold(opts.Kind, record); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	reporter.Info("created " + path)
	return path, nil
}

func pickCategory(opts NewOptions) (catalog.Category, error) {
	value := strings.TrimSpace(opts.Category)
	if value == "" {
		if opts.Prompter == nil {
			return "", errors.New("a category is required")
		}
		picked, err := opts.Prompter.Select("Category", catalog.CategoryNames())
		if err != nil {
			return "", err
		}
		value = picked
	}
	if !catalog.IsCategory(value) {
		msg := fmt.Sprintf("unknown category %q", value)
		if hint := schema.Suggest(value, catalog.CategoryNames()); hint != "" {
			msg += fmt.Sprintf(" (did you mean %s?)", hint)
		}
		return "", errors.New(msg)
	}
	return catalog.Category(value), nil
}

// pickTags offers the tags already used by records of the same kind when
// none were given.
func pickTags(dir string, opts NewOptions) ([]string, error) {
	if len(opts.Tags) > 0 {
		return opts.Tags, nil
	}
	if opts.Prompter == nil {
		return nil, errors.New("at least one tag is required")
	}
	existing, err := existingTags(dir, opts.Kind)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, errors.New("no existing tags to pick from; pass at least one tag")
	}
	return opts.Prompter.MultiSelect("Tags", existing)
}

func existingTags(dir string, kind catalog.Kind) ([]string, error) {
	entries, err := content.Scan(dir, kind)
	if err != nil {
		var infra *content.InfrastructureError
		if errors.As(err, &infra) && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	seen := map[string]bool{}
	var tags []string
	for entry := range entries {
		if entry.Err != nil {
			continue
		}
		list, _ := entry.Raw["tags"].([]any)
		for _, item := range list {
			if tag, ok := item.(string); ok && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	slices.Sort(tags)
	return tags, nil
}

func renderTip(fm catalog.TipFrontmatter) ([]byte, error) {
	block, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(block)
	b.WriteString("---\n\n")
	b.WriteString("Describe the tip here. Show the command or snippet and when it helps.\n")
	return []byte(b.String()), nil
}

func checkScaffold(kind catalog.Kind, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	violations := schema.Validate(schema.ShapeFor(kind), raw)
	if len(violations) == 0 {
		return nil
	}
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	return fmt.Errorf("new %s would be invalid: %s", kind.Singular(), strings.Join(parts, "; "))
}
