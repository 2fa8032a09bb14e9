package app

import (
	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/linkcheck"
)

type ProgressReporter interface {
	Increment(label string)
	Done()
}

type Reporter interface {
	Info(message string)
	Warn(message string)
	Problem(problem Problem)
	ValidSummary(kind catalog.Kind, valid, total int)
	ValidateSummary(problems int)
	LinkFailed(result linkcheck.Result)
	LinkSummary(summary LinkSummary)
	Entry(id, title string, category catalog.Category, tags []string)
	Tags(tags []string)
	SearchSummary(shown, total int)
	Section(title string)
	ToolDetail(tool catalog.Tool)
	TipDetail(tip catalog.Tip)
	Progress(label string, total int) ProgressReporter
}

type noopReporter struct{}

func (n noopReporter) Info(string)                                      {}
func (n noopReporter) Warn(string)                                      {}
func (n noopReporter) Problem(Problem)                                  {}
func (n noopReporter) ValidSummary(catalog.Kind, int, int)              {}
func (n noopReporter) ValidateSummary(int)                              {}
func (n noopReporter) LinkFailed(linkcheck.Result)                      {}
func (n noopReporter) LinkSummary(LinkSummary)                          {}
func (n noopReporter) Entry(string, string, catalog.Category, []string) {}
func (n noopReporter) Tags([]string)                                    {}
func (n noopReporter) SearchSummary(int, int)                           {}
func (n noopReporter) Section(string)                                   {}
func (n noopReporter) ToolDetail(catalog.Tool)                          {}
func (n noopReporter) TipDetail(catalog.Tip)                            {}
func (n noopReporter) Progress(string, int) ProgressReporter            { return noopProgress{} }

type noopProgress struct{}

func (n noopProgress) Increment(string) {}
func (n noopProgress) Done()            {}

func ensureReporter(reporter Reporter) Reporter {
	if reporter == nil {
		return noopReporter{}
	}
	return reporter
}
