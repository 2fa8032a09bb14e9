package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/content"
	"github.com/GhostScientist/dev-toolbox/internal/search"
)

// Per-kind caps of the combined overview when no limit is given.
const (
	OverviewToolLimit = 6
	OverviewTipLimit  = 3
)

type SearchOptions struct {
	// Kind selects tools or tips. Empty searches both kinds with one merged
	// tag facet.
	Kind     catalog.Kind
	Filter   search.Filter
	TagsOnly bool
	// Limit caps the entries listed per kind; zero lists every match, or the
	// overview caps when both kinds are searched.
	Limit    int
	Reporter Reporter
	Logger   *slog.Logger
}

// Search loads the valid records of the project and lists those that pass
// the filter, best match first. With TagsOnly it lists the tag facet of the
// category-filtered records instead.
func Search(ctx context.Context, project Project, opts SearchOptions) error {
	reporter := ensureReporter(opts.Reporter)
	logger := ensureLogger(opts.Logger)

	coll, err := content.LoadCollection(ctx, project.Dirs(), logger)
	if err != nil {
		return err
	}
	cfg := project.Config.Search
	searchOpts := search.Options{Threshold: cfg.Threshold, Distance: cfg.Distance}

	toolTags := func() []string { return search.AllTags(search.FilterCategory(coll.Tools, opts.Filter.Category)) }
	tipTags := func() []string { return search.AllTags(search.FilterCategory(coll.Tips, opts.Filter.Category)) }

	switch opts.Kind {
	case catalog.KindTool:
		if opts.TagsOnly {
			reporter.Tags(toolTags())
			return nil
		}
		listTools(reporter, coll.Tools, search.ApplyTools(coll.Tools, opts.Filter, searchOpts), opts.Limit)
	case catalog.KindTip:
		if opts.TagsOnly {
			reporter.Tags(tipTags())
			return nil
		}
		listTips(reporter, coll.Tips, search.ApplyTips(coll.Tips, opts.Filter, searchOpts), opts.Limit)
	case "":
		if opts.TagsOnly {
			reporter.Tags(search.MergeTags(toolTags(), tipTags()))
			return nil
		}
		toolLimit, tipLimit := OverviewToolLimit, OverviewTipLimit
		if opts.Limit > 0 {
			toolLimit, tipLimit = opts.Limit, opts.Limit
		}
		reporter.Section("Tools")
		listTools(reporter, coll.Tools, search.ApplyTools(coll.Tools, opts.Filter, searchOpts), toolLimit)
		reporter.Section("Tips")
		listTips(reporter, coll.Tips, search.ApplyTips(coll.Tips, opts.Filter, searchOpts), tipLimit)
	default:
		return fmt.Errorf("unknown kind %q", opts.Kind)
	}
	return nil
}

func listTools(reporter Reporter, all, matched []catalog.Tool, limit int) {
	shown := search.Limit(matched, limit)
	for _, tool := range shown {
		reporter.Entry(tool.ID, tool.Name, tool.Category, tool.Tags)
	}
	reporter.SearchSummary(len(shown), len(all))
}

func listTips(reporter Reporter, all, matched []catalog.Tip, limit int) {
	shown := search.Limit(matched, limit)
	for _, tip := range shown {
		reporter.Entry(tip.ID, tip.Title, tip.Category, tip.Tags)
	}
	reporter.SearchSummary(len(shown), len(all))
}

type ShowOptions struct {
	Kind     catalog.Kind
	ID       string
	Reporter Reporter
	Logger   *slog.Logger
}

// Show renders one loaded record by id. A record that is missing or was left
// out for being invalid is reported as not found.
func Show(ctx context.Context, project Project, opts ShowOptions) error {
	reporter := ensureReporter(opts.Reporter)
	logger := ensureLogger(opts.Logger)

	coll, err := content.LoadCollection(ctx, project.Dirs(), logger)
	if err != nil {
		return err
	}
	if opts.Kind == catalog.KindTip {
		tip, ok := coll.Tip(opts.ID)
		if !ok {
			return fmt.Errorf("tip %q not found", opts.ID)
		}
		reporter.TipDetail(tip)
		return nil
	}
	tool, ok := coll.Tool(opts.ID)
	if !ok {
		return fmt.Errorf("tool %q not found", opts.ID)
	}
	reporter.ToolDetail(tool)
	return nil
}
