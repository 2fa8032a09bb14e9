package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/checks"
	"github.com/GhostScientist/dev-toolbox/internal/content"
	"github.com/GhostScientist/dev-toolbox/internal/schema"
)

const (
	RuleParse   = "parse"
	RuleNoFiles = "no_files"
)

type ValidateOptions struct {
	Reporter Reporter
	Logger   *slog.Logger
}

type ValidateReport struct {
	Files    int
	Problems []Problem
}

func (r ValidateReport) OK() bool {
	return len(r.Problems) == 0
}

// Validate checks the categories file and every tool and tip file under the
// project. Problems with individual files are collected into the report;
// the returned error is non-nil when the report has problems or when a
// content location cannot be read at all.
func Validate(project Project, opts ValidateOptions) (ValidateReport, error) {
	reporter := ensureReporter(opts.Reporter)
	logger := ensureLogger(opts.Logger)

	var report ValidateReport
	add := func(p Problem) {
		report.Problems = append(report.Problems, p)
		reporter.Problem(p)
	}

	categoriesPath := project.Content().Categories
	raw, err := content.LoadCategories(categoriesPath)
	var parseErr *content.ParseError
	switch {
	case errors.As(err, &parseErr):
		add(Problem{Path: categoriesPath, Rule: RuleParse, Message: parseErr.Err.Error()})
	case err != nil:
		return report, err
	default:
		for _, p := range content.CheckCategories(raw) {
			add(Problem{Path: categoriesPath, Rule: "categories", Message: p.Message})
		}
	}

	for _, kind := range []catalog.Kind{catalog.KindTool, catalog.KindTip} {
		dir := project.dir(kind)
		logger.Debug("validating", "kind", string(kind), "dir", dir)
		files, valid, problems, err := validateKind(dir, kind)
		if err != nil {
			return report, err
		}
		for _, p := range problems {
			add(p)
		}
		report.Files += files
		reporter.ValidSummary(kind, valid, files)
	}

	reporter.ValidateSummary(len(report.Problems))
	if !report.OK() {
		return report, reported("validation failed with %d %s", len(report.Problems), plural(len(report.Problems), "problem"))
	}
	return report, nil
}

// validateKind runs the per-file schema rules and then the cross-file
// consistency rules for one kind. Only records that pass the schema take part
// in the consistency rules.
func validateKind(dir string, kind catalog.Kind) (files, valid int, problems []Problem, err error) {
	entries, err := content.Scan(dir, kind)
	if err != nil {
		return 0, 0, nil, err
	}

	var records []checks.Record
	bad := map[string]bool{}
	for entry := range entries {
		files++
		if entry.Err != nil {
			problems = append(problems, Problem{Path: entry.Path, Rule: RuleParse, Message: parseMessage(entry.Err)})
			bad[entry.Path] = true
			continue
		}

		var violations []schema.Violation
		if kind == catalog.KindTip {
			violations = schema.ValidateTipFrontmatter(entry.Raw)
		} else {
			violations = schema.ValidateTool(entry.Raw)
		}
		for _, v := range violations {
			problems = append(problems, Problem{Path: entry.Path, Field: v.Field, Rule: string(v.Rule), Message: v.Message})
		}
		if len(violations) > 0 {
			bad[entry.Path] = true
			continue
		}

		id, _ := entry.ID()
		records = append(records, checks.Record{Path: entry.Path, ID: id})
		if kind != catalog.KindTip {
			continue
		}
		// The frontmatter already passed, so anything left is about the body.
		for _, v := range schema.ValidateTip(entry.Raw, entry.Body) {
			problems = append(problems, Problem{Path: entry.Path, Field: v.Field, Rule: string(v.Rule), Message: v.Message})
			bad[entry.Path] = true
		}
	}

	if files == 0 {
		problems = append(problems, Problem{Path: dir, Rule: RuleNoFiles, Message: fmt.Sprintf("no %s files found", kind.Singular())})
	}

	for _, v := range checks.Check(kind, records) {
		problems = append(problems, Problem{Path: v.File, Rule: string(v.Rule), Message: v.Message})
		bad[v.File] = true
	}
	return files, files - len(bad), problems, nil
}

func parseMessage(err error) string {
	var parseErr *content.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Err.Error()
	}
	return err.Error()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
