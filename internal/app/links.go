package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/config"
	"github.com/GhostScientist/dev-toolbox/internal/content"
	"github.com/GhostScientist/dev-toolbox/internal/linkcheck"
)

type LinkOptions struct {
	// Timeout and Concurrency override the configured values when non-zero.
	Timeout     time.Duration
	Concurrency int
	Client      *http.Client
	Reporter    Reporter
	Logger      *slog.Logger
}

type LinkSummary struct {
	Checked        int
	Skipped        int
	Failed         int
	CriticalFailed int
}

type LinkReport struct {
	Summary LinkSummary
	Results []linkcheck.Result
}

// CheckLinks collects the links of every tool and tip, probes them, and
// fails only when a critical link is broken. Files that cannot be parsed are
// skipped with a warning.
func CheckLinks(ctx context.Context, project Project, opts LinkOptions) (LinkReport, error) {
	reporter := ensureReporter(opts.Reporter)
	logger := ensureLogger(opts.Logger)

	links := config.MergeLinks(project.Config.Links, config.LinksConfig{
		TimeoutSeconds: int(opts.Timeout / time.Second),
		Concurrency:    opts.Concurrency,
	})
	if err := config.ValidateLinks(links); err != nil {
		return LinkReport{}, err
	}

	toolLinks, err := collectToolLinks(project.dir(catalog.KindTool), reporter)
	if err != nil {
		return LinkReport{}, err
	}
	tipLinks, err := collectTipLinks(project.dir(catalog.KindTip), reporter)
	if err != nil {
		return LinkReport{}, err
	}

	all := linkcheck.Dedupe(append(toolLinks, tipLinks...))
	reporter.Info(fmt.Sprintf("found %d unique %s", len(all), plural(len(all), "link")))
	urls, skipped, err := linkcheck.Skip(all, links.Skip)
	if err != nil {
		return LinkReport{}, err
	}
	for _, url := range skipped {
		logger.Debug("skipping link", "url", url)
	}

	report := LinkReport{Summary: LinkSummary{Skipped: len(skipped)}}
	if len(urls) == 0 {
		reporter.Info("no links to check")
		reporter.LinkSummary(report.Summary)
		return report, nil
	}

	progress := reporter.Progress("Checking links", len(urls))
	checker := linkcheck.Checker{
		Client:      opts.Client,
		Timeout:     links.Timeout(),
		Concurrency: links.Concurrency,
		RPS:         links.RPS,
		UserAgent:   links.UserAgent,
		OnResult: func(res linkcheck.Result) {
			progress.Increment(res.URL)
		},
	}
	results, err := checker.Check(ctx, orderByClass(urls))
	progress.Done()
	if err != nil {
		return LinkReport{}, err
	}

	report.Results = results
	report.Summary.Checked = len(results)
	for _, res := range results {
		if res.OK() {
			continue
		}
		report.Summary.Failed++
		if res.Class == linkcheck.ClassCritical {
			report.Summary.CriticalFailed++
		}
		logger.Debug("link failed", "url", res.URL, "class", string(res.Class), "status", res.Status)
		reporter.LinkFailed(res)
	}
	reporter.LinkSummary(report.Summary)

	if n := report.Summary.CriticalFailed; n > 0 {
		return report, reported("%d critical %s failed", n, plural(n, "link"))
	}
	return report, nil
}

// orderByClass puts critical links ahead of important ones, keeping the
// relative order within each class.
func orderByClass(urls []string) []string {
	out := make([]string, 0, len(urls))
	var important []string
	for _, url := range urls {
		if linkcheck.Classify(url) == linkcheck.ClassImportant {
			important = append(important, url)
			continue
		}
		out = append(out, url)
	}
	return append(out, important...)
}

func collectToolLinks(dir string, reporter Reporter) ([]string, error) {
	entries, err := content.Scan(dir, catalog.KindTool)
	if err != nil {
		return nil, err
	}
	var raws []map[string]any
	for entry := range entries {
		if entry.Err != nil {
			reporter.Warn(fmt.Sprintf("could not parse %s: %s", entry.Path, parseMessage(entry.Err)))
			continue
		}
		raws = append(raws, entry.Raw)
	}
	return linkcheck.ExtractToolLinks(raws), nil
}

func collectTipLinks(dir string, reporter Reporter) ([]string, error) {
	entries, err := content.Scan(dir, catalog.KindTip)
	if err != nil {
		return nil, err
	}
	var bodies []string
	for entry := range entries {
		if entry.Err != nil {
			reporter.Warn(fmt.Sprintf("could not parse %s: %s", entry.Path, parseMessage(entry.Err)))
			continue
		}
		bodies = append(bodies, entry.Body)
	}
	return linkcheck.ExtractTipLinks(bodies), nil
}
