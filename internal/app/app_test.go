package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GhostScientist/dev-toolbox/internal/app"
	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/config"
	"github.com/GhostScientist/dev-toolbox/internal/content"
	"github.com/GhostScientist/dev-toolbox/internal/linkcheck"
	"github.com/GhostScientist/dev-toolbox/internal/search"
)

type recorder struct {
	infos    []string
	warnings []string
	problems []app.Problem
	failed   []linkcheck.Result
	summary  app.LinkSummary
	entries  []string
	tags     []string
	sections []string
	detail   string
	valid    map[catalog.Kind][2]int
}

func (r *recorder) Info(message string)           { r.infos = append(r.infos, message) }
func (r *recorder) Warn(message string)           { r.warnings = append(r.warnings, message) }
func (r *recorder) Problem(p app.Problem)         { r.problems = append(r.problems, p) }
func (r *recorder) ValidateSummary(int)           {}
func (r *recorder) LinkFailed(l linkcheck.Result) { r.failed = append(r.failed, l) }
func (r *recorder) LinkSummary(s app.LinkSummary) { r.summary = s }
func (r *recorder) Tags(tags []string)            { r.tags = tags }
func (r *recorder) SearchSummary(int, int)        {}
func (r *recorder) Section(title string)          { r.sections = append(r.sections, title) }
func (r *recorder) ToolDetail(tool catalog.Tool)  { r.detail = tool.ID }
func (r *recorder) TipDetail(tip catalog.Tip)     { r.detail = tip.ID }

func (r *recorder) ValidSummary(kind catalog.Kind, valid, total int) {
	if r.valid == nil {
		r.valid = map[catalog.Kind][2]int{}
	}
	r.valid[kind] = [2]int{valid, total}
}

func (r *recorder) Entry(id, _ string, _ catalog.Category, _ []string) {
	r.entries = append(r.entries, id)
}

func (r *recorder) Progress(string, int) app.ProgressReporter { return nopProgress{} }

type nopProgress struct{}

func (nopProgress) Increment(string) {}
func (nopProgress) Done()            {}

func toolJSON(id, name, website string, tags ...string) string {
	tool := map[string]any{
		"id":              id,
		"name":            name,
		"website":         website,
		"category":        "Frontend",
		"tags":            tags,
		"summary":         name + " summary.",
		"why":             "Because.",
		"pricing":         "Open Source",
		"getting_started": "npm i " + id,
		"added_by":        map[string]any{"name": "Ada", "date": "2024-05-01"},
	}
	data, _ := json.MarshalIndent(tool, "", "  ")
	return string(data)
}

func tipMarkdown(id, body string) string {
	return fmt.Sprintf("---\nid: %s\ntitle: %s tip\ncategory: DevEx\ntags: [git]\nadded_by:\n  name: Ada\n  date: \"2024-05-01\"\n---\n%s", id, id, body)
}

type fixture struct {
	root  string
	tools string
	tips  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		root:  root,
		tools: filepath.Join(root, "src", "data", "tools"),
		tips:  filepath.Join(root, "src", "data", "tips"),
	}
	require.NoError(t, os.MkdirAll(f.tools, 0o755))
	require.NoError(t, os.MkdirAll(f.tips, 0o755))
	f.write(t, filepath.Join(root, "src", "data", "categories.json"), `["AI", "Frontend", "DevEx"]`)
	f.write(t, filepath.Join(f.tools, "react.json"), toolJSON("react", "React", "https://react.dev", "ui"))
	f.write(t, filepath.Join(f.tips, "git-bisect.md"), tipMarkdown("git-bisect", "Run git bisect.\n"))
	return f
}

func (f fixture) write(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func (f fixture) project(t *testing.T) app.Project {
	t.Helper()
	project, err := app.Open(f.root, "")
	require.NoError(t, err)
	return project
}

func rules(problems []app.Problem) []string {
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, filepath.Base(p.Path)+":"+p.Rule)
	}
	return out
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("clean content", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec := &recorder{}
		report, err := app.Validate(f.project(t), app.ValidateOptions{Reporter: rec})
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Equal(t, 2, report.Files)
		assert.Equal(t, [2]int{1, 1}, rec.valid[catalog.KindTool])
	})

	t.Run("duplicate id reported once on the later file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.write(t, filepath.Join(f.tools, "vue.json"), toolJSON("react", "Vue", "https://vuejs.org", "ui"))
		report, err := app.Validate(f.project(t), app.ValidateOptions{})
		require.Error(t, err)
		assert.Equal(t, []string{"vue.json:duplicate_id"}, rules(report.Problems))
	})

	t.Run("filename mismatch", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.write(t, filepath.Join(f.tools, "foo.json"), toolJSON("bar", "Bar", "https://bar.dev", "x"))
		report, err := app.Validate(f.project(t), app.ValidateOptions{})
		require.Error(t, err)
		require.Len(t, report.Problems, 1)
		p := report.Problems[0]
		assert.Equal(t, "filename_mismatch", p.Rule)
		assert.Contains(t, p.Message, `"foo"`)
		assert.Contains(t, p.Message, `"bar"`)
	})

	t.Run("accumulates every kind of problem", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.write(t, filepath.Join(f.tools, "broken.json"), `{"id": `)
		f.write(t, filepath.Join(f.tools, "nameless.json"), `{"id": "nameless"}`)
		f.write(t, filepath.Join(f.tips, "blank.md"), tipMarkdown("blank", "   \n"))
		rec := &recorder{}
		report, err := app.Validate(f.project(t), app.ValidateOptions{Reporter: rec})
		require.ErrorContains(t, err, "validation failed")

		got := rules(report.Problems)
		assert.Contains(t, got, "broken.json:parse")
		assert.Contains(t, got, "nameless.json:required")
		assert.Contains(t, got, "blank.md:empty")
		assert.NotContains(t, got, "nameless.json:filename_mismatch")
		assert.Equal(t, report.Problems, rec.problems)
		assert.Equal(t, [2]int{1, 3}, rec.valid[catalog.KindTool])
		assert.Equal(t, [2]int{1, 2}, rec.valid[catalog.KindTip])
	})

	t.Run("bad categories file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.write(t, filepath.Join(f.root, "src", "data", "categories.json"), `["AI", "AI"]`)
		report, err := app.Validate(f.project(t), app.ValidateOptions{})
		require.Error(t, err)
		assert.Equal(t, []string{"categories.json:categories"}, rules(report.Problems))
	})

	t.Run("empty tips directory", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, os.Remove(filepath.Join(f.tips, "git-bisect.md")))
		report, err := app.Validate(f.project(t), app.ValidateOptions{})
		require.Error(t, err)
		assert.Equal(t, []string{"tips:no_files"}, rules(report.Problems))
	})

	t.Run("missing directory aborts", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, os.RemoveAll(f.tools))
		_, err := app.Validate(f.project(t), app.ValidateOptions{})
		var infra *content.InfrastructureError
		require.ErrorAs(t, err, &infra)
	})
}

func TestProblemString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.json: tags: min_items: too few", app.Problem{Path: "a.json", Field: "tags", Rule: "min_items", Message: "too few"}.String())
	assert.Equal(t, "a.json: duplicate_id: taken", app.Problem{Path: "a.json", Rule: "duplicate_id", Message: "taken"}.String())
}

func TestCheckLinks(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/gone") {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	run := func(t *testing.T, tipBody string) (app.LinkReport, *recorder, error) {
		f := newFixture(t)
		f.write(t, filepath.Join(f.tools, "react.json"), toolJSON("react", "React", server.URL+"/react", "ui"))
		f.write(t, filepath.Join(f.tools, "broken.json"), `{`)
		f.write(t, filepath.Join(f.tips, "git-bisect.md"), tipMarkdown("git-bisect", tipBody))
		rec := &recorder{}
		report, err := app.CheckLinks(context.Background(), f.project(t), app.LinkOptions{
			Client:      server.Client(),
			Concurrency: 1,
			Reporter:    rec,
		})
		return report, rec, err
	}

	t.Run("important failures only warn", func(t *testing.T) {
		body := fmt.Sprintf("See %s/react, and %s/github.com/x/gone.\n", server.URL, server.URL)
		report, rec, err := run(t, body)
		require.NoError(t, err)
		assert.Equal(t, app.LinkSummary{Checked: 2, Failed: 1}, report.Summary)
		require.Len(t, rec.failed, 1)
		assert.Equal(t, linkcheck.ClassImportant, rec.failed[0].Class)
		require.Len(t, rec.warnings, 1)
		assert.Contains(t, rec.warnings[0], "broken.json")
	})

	t.Run("critical failure fails the run", func(t *testing.T) {
		body := fmt.Sprintf("Docs moved: %s/docs/gone!\n", server.URL)
		report, _, err := run(t, body)
		require.ErrorContains(t, err, "1 critical link failed")
		assert.Equal(t, 1, report.Summary.CriticalFailed)
	})
}

func TestCheckLinksSkipsConfiguredPatterns(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, filepath.Join(f.root, config.FileName), "[links]\nskip = [\"https://react.dev/**\", \"https://react.dev\"]\n")
	rec := &recorder{}
	report, err := app.CheckLinks(context.Background(), f.project(t), app.LinkOptions{Reporter: rec, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Skipped)
	assert.Zero(t, report.Summary.Checked)
	assert.Contains(t, rec.infos, "no links to check")
}

func TestSearch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, filepath.Join(f.tools, "redux.json"), toolJSON("redux", "Redux", "https://redux.js.org", "state"))
	f.write(t, filepath.Join(f.tools, "invalid.json"), `{"id": "invalid"}`)
	project := f.project(t)

	rec := &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{
		Kind:     catalog.KindTool,
		Filter:   search.Filter{Query: "redruex"},
		Reporter: rec,
	}))
	assert.Equal(t, []string{"redux"}, rec.entries)

	rec = &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{Kind: catalog.KindTool, Reporter: rec}))
	assert.Equal(t, []string{"react", "redux"}, rec.entries)

	rec = &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{Kind: catalog.KindTool, TagsOnly: true, Reporter: rec}))
	assert.Equal(t, []string{"state", "ui"}, rec.tags)

	rec = &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{
		Kind:     catalog.KindTip,
		Filter:   search.Filter{Tags: []string{"git"}},
		Reporter: rec,
	}))
	assert.Equal(t, []string{"git-bisect"}, rec.entries)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	data, err := app.Schema("tips")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title"`)

	_, err = app.Schema("widgets")
	require.Error(t, err)
}

func TestOpenExplicitConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := app.Open(f.root, filepath.Join(f.root, "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(f.root, "custom.toml")
	f.write(t, path, "[search]\nthreshold = 0.1\n")
	project, err := app.Open(f.root, path)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, project.Config.Search.Threshold, 1e-9)
}

func TestSearchAllKinds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for i := range 8 {
		id := fmt.Sprintf("tool-%d", i)
		f.write(t, filepath.Join(f.tools, id+".json"), toolJSON(id, "Tool "+id, "https://example.com", "misc"))
	}
	for i := range 4 {
		id := fmt.Sprintf("tip-%d", i)
		f.write(t, filepath.Join(f.tips, id+".md"), tipMarkdown(id, "Body.\n"))
	}
	project := f.project(t)

	rec := &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{Reporter: rec}))
	assert.Equal(t, []string{"Tools", "Tips"}, rec.sections)
	require.Len(t, rec.entries, app.OverviewToolLimit+app.OverviewTipLimit)
	assert.Equal(t, "react", rec.entries[0])
	assert.Equal(t, "git-bisect", rec.entries[app.OverviewToolLimit])

	rec = &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{Limit: 1, Reporter: rec}))
	assert.Equal(t, []string{"react", "git-bisect"}, rec.entries)

	rec = &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{TagsOnly: true, Reporter: rec}))
	assert.Equal(t, []string{"git", "misc", "ui"}, rec.tags)

	rec = &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{Kind: catalog.KindTool, Limit: 2, Reporter: rec}))
	assert.Equal(t, []string{"react", "tool-0"}, rec.entries)
}

func TestShow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, filepath.Join(f.tools, "invalid.json"), `{"id": "invalid"}`)
	project := f.project(t)

	rec := &recorder{}
	require.NoError(t, app.Show(context.Background(), project, app.ShowOptions{Kind: catalog.KindTool, ID: "react", Reporter: rec}))
	assert.Equal(t, "react", rec.detail)

	rec = &recorder{}
	require.NoError(t, app.Show(context.Background(), project, app.ShowOptions{Kind: catalog.KindTip, ID: "git-bisect", Reporter: rec}))
	assert.Equal(t, "git-bisect", rec.detail)

	err := app.Show(context.Background(), project, app.ShowOptions{Kind: catalog.KindTool, ID: "vue"})
	require.EqualError(t, err, `tool "vue" not found`)

	err = app.Show(context.Background(), project, app.ShowOptions{Kind: catalog.KindTool, ID: "invalid"})
	require.EqualError(t, err, `tool "invalid" not found`)
}

func TestExtraKeysAreLintedButLoaded(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	withLogo := strings.Replace(toolJSON("react", "React", "https://react.dev", "ui"), `"id": "react",`, `"id": "react", "logo": "react.svg",`, 1)
	f.write(t, filepath.Join(f.tools, "react.json"), withLogo)
	project := f.project(t)

	report, err := app.Validate(project, app.ValidateOptions{})
	require.Error(t, err)
	assert.Equal(t, []string{"react.json:unknown"}, rules(report.Problems))

	rec := &recorder{}
	require.NoError(t, app.Search(context.Background(), project, app.SearchOptions{Kind: catalog.KindTool, Reporter: rec}))
	assert.Equal(t, []string{"react"}, rec.entries)
}

func TestFailuresAreMarkedReported(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, filepath.Join(f.tools, "foo.json"), toolJSON("bar", "Bar", "https://bar.dev", "x"))
	_, err := app.Validate(f.project(t), app.ValidateOptions{})
	var reported *app.ReportedError
	require.ErrorAs(t, err, &reported)
	assert.Equal(t, "validation failed with 1 problem", err.Error())

	_, err = app.Open(f.root, filepath.Join(f.root, "missing.toml"))
	require.Error(t, err)
	assert.False(t, errors.As(err, &reported))
}
