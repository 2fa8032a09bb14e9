package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/schema"
)

type Dirs struct {
	Tools string
	Tips  string
}

func DecodeTool(raw map[string]any) (catalog.Tool, error) {
	var tool catalog.Tool
	err := remarshal(raw, &tool)
	return tool, err
}

func DecodeTip(raw map[string]any, body string) (catalog.Tip, error) {
	var fm catalog.TipFrontmatter
	if err := remarshal(raw, &fm); err != nil {
		return catalog.Tip{}, err
	}
	return catalog.Tip{TipFrontmatter: fm, Content: body}, nil
}

func remarshal(raw map[string]any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// LoadCollection loads every valid tool and tip. Files that fail to parse or
// validate are logged and left out; only a missing content directory or a
// cancelled ctx fails the load. Keys outside the schema are ignored. Both
// slices are sorted by id.
func LoadCollection(ctx context.Context, dirs Dirs, logger *slog.Logger) (catalog.Collection, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var coll catalog.Collection
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tools, err := LoadTools(gctx, dirs.Tools, logger)
		coll.Tools = tools
		return err
	})
	g.Go(func() error {
		tips, err := LoadTips(gctx, dirs.Tips, logger)
		coll.Tips = tips
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Collection{}, err
	}
	return coll, nil
}

func LoadTools(ctx context.Context, dir string, logger *slog.Logger) ([]catalog.Tool, error) {
	entries, err := Scan(dir, catalog.KindTool)
	if err != nil {
		return nil, err
	}
	var out []catalog.Tool
	for entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !accept(entry, schema.ValidateTool(entry.Raw), logger, catalog.KindTool) {
			continue
		}
		tool, err := DecodeTool(entry.Raw)
		if err != nil {
			logger.Warn("invalid tool data", "path", entry.Path, "error", err)
			continue
		}
		out = append(out, tool)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func LoadTips(ctx context.Context, dir string, logger *slog.Logger) ([]catalog.Tip, error) {
	entries, err := Scan(dir, catalog.KindTip)
	if err != nil {
		return nil, err
	}
	var out []catalog.Tip
	for entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !accept(entry, schema.ValidateTip(entry.Raw, entry.Body), logger, catalog.KindTip) {
			continue
		}
		tip, err := DecodeTip(entry.Raw, entry.Body)
		if err != nil {
			logger.Warn("invalid tip data", "path", entry.Path, "error", err)
			continue
		}
		out = append(out, tip)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func accept(entry Entry, violations []schema.Violation, logger *slog.Logger, kind catalog.Kind) bool {
	msg := "invalid " + kind.Singular() + " data"
	if entry.Err != nil {
		logger.Warn(msg, "path", entry.Path, "error", entry.Err)
		return false
	}
	violations = slices.DeleteFunc(violations, func(v schema.Violation) bool {
		return v.Rule == schema.RuleUnknown
	})
	if len(violations) == 0 {
		return true
	}
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	logger.Warn(msg, "path", entry.Path, "violations", strings.Join(parts, "; "))
	return false
}
