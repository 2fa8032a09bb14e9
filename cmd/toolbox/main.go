package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/GhostScientist/dev-toolbox/internal/app"
	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/config"
	"github.com/GhostScientist/dev-toolbox/internal/search"
	"github.com/GhostScientist/dev-toolbox/internal/ui"
)

type CLI struct {
	NoColor    bool          `help:"Disable color output."`
	Path       string        `help:"Run as if in this directory."`
	Config     string        `help:"Path to a config file (default: toolbox.toml in the project root)." type:"path"`
	Verbose    bool          `short:"v" help:"Log debug details to stderr."`
	Init       InitCmd       `cmd:"" help:"Create toolbox.toml and the content directories."`
	New        NewCmd        `cmd:"" help:"Scaffold a new tool or tip."`
	Validate   ValidateCmd   `cmd:"" help:"Validate every tool, tip and the categories file."`
	CheckLinks CheckLinksCmd `cmd:"" name:"check-links" help:"Check that external links still resolve."`
	Search     SearchCmd     `cmd:"" help:"Filter and rank tools or tips."`
	Show       ShowCmd       `cmd:"" help:"Show one tool or tip by id."`
	Schema     SchemaCmd     `cmd:"" help:"Print the JSON Schema for a content kind."`
}

type InitCmd struct{}

type NewCmd struct {
	Kind     string   `enum:"tools,tips" default:"tools" help:"Kind of record (tools or tips)."`
	ID       string   `arg:"" help:"Identifier, also used as the file name."`
	Title    string   `help:"Tool name or tip title (defaults to the id)."`
	Category string   `help:"Category; prompted for when omitted on a terminal."`
	Tags     []string `name:"tag" help:"Tag to attach (repeatable); prompted for when omitted on a terminal."`
	Pricing  string   `help:"Pricing model for tools." default:"Open Source"`
	Author   string   `help:"Name recorded in added_by (defaults to $USER)."`
}

type ValidateCmd struct{}

type CheckLinksCmd struct {
	Timeout     time.Duration `help:"Per-request timeout (default from config, 10s)."`
	Concurrency int           `help:"Maximum concurrent requests (default from config, 8)."`
}

type SearchCmd struct {
	Kind     string   `enum:"tools,tips,all" default:"tools" help:"Kind of record to search (tools, tips or all)."`
	Category string   `help:"Only show records in this category."`
	Tags     []string `name:"tag" help:"Only show records with any of these tags (repeatable)."`
	TagsOnly bool     `help:"List the tags in use instead of records."`
	Limit    int      `help:"Maximum entries per kind (all defaults to 6 tools and 3 tips)."`
	Query    []string `arg:"" optional:"" help:"Free-text query."`
}

type ShowCmd struct {
	Kind string `enum:"tools,tips" default:"tools" help:"Kind of record (tools or tips)."`
	ID   string `arg:"" help:"Identifier of the record."`
}

type SchemaCmd struct {
	Kind string `enum:"tools,tips" default:"tools" help:"Kind of record (tools or tips)."`
}

type Context struct {
	Ctx        context.Context
	Root       string
	ConfigPath string
	Reporter   app.Reporter
	Logger     *slog.Logger
}

func (c *Context) project() (app.Project, error) {
	return app.Open(c.Root, c.ConfigPath)
}

func (c *InitCmd) Run(ctx *Context) error {
	return app.Init(ctx.Root, app.InitOptions{Reporter: ctx.Reporter})
}

func (c *NewCmd) Run(ctx *Context) error {
	project, err := ctx.project()
	if err != nil {
		return err
	}
	kind, _ := catalog.ParseKind(c.Kind)
	opts := app.NewOptions{
		Kind:     kind,
		ID:       c.ID,
		Title:    c.Title,
		Category: c.Category,
		Tags:     c.Tags,
		Author:   c.Author,
		Reporter: ctx.Reporter,
	}
	if kind == catalog.KindTool {
		opts.Pricing = c.Pricing
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		opts.Prompter = app.TerminalPrompter{}
	}
	_, err = app.New(project, opts)
	return err
}

func (c *ValidateCmd) Run(ctx *Context) error {
	project, err := ctx.project()
	if err != nil {
		return err
	}
	_, err = app.Validate(project, app.ValidateOptions{Reporter: ctx.Reporter, Logger: ctx.Logger})
	return err
}

func (c *CheckLinksCmd) Run(ctx *Context) error {
	project, err := ctx.project()
	if err != nil {
		return err
	}
	_, err = app.CheckLinks(ctx.Ctx, project, app.LinkOptions{
		Timeout:     c.Timeout,
		Concurrency: c.Concurrency,
		Reporter:    ctx.Reporter,
		Logger:      ctx.Logger,
	})
	return err
}

func (c *SearchCmd) Run(ctx *Context) error {
	project, err := ctx.project()
	if err != nil {
		return err
	}
	// "all" has no kind of its own; the empty kind searches both.
	kind, _ := catalog.ParseKind(c.Kind)
	return app.Search(ctx.Ctx, project, app.SearchOptions{
		Kind: kind,
		Filter: search.Filter{
			Category: c.Category,
			Tags:     c.Tags,
			Query:    strings.Join(c.Query, " "),
		},
		TagsOnly: c.TagsOnly,
		Limit:    c.Limit,
		Reporter: ctx.Reporter,
		Logger:   ctx.Logger,
	})
}

func (c *ShowCmd) Run(ctx *Context) error {
	project, err := ctx.project()
	if err != nil {
		return err
	}
	kind, _ := catalog.ParseKind(c.Kind)
	return app.Show(ctx.Ctx, project, app.ShowOptions{
		Kind:     kind,
		ID:       c.ID,
		Reporter: ctx.Reporter,
		Logger:   ctx.Logger,
	})
}

func (c *SchemaCmd) Run(ctx *Context) error {
	data, err := app.Schema(c.Kind)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("toolbox"),
		kong.Description("Validate, search and link-check the dev-toolbox catalog."),
		kong.UsageOnError(),
	)
	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	baseDir, err := resolveBaseDir(cwd, cli.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	root := baseDir
	if kctx.Command() != "init" {
		root = config.FindRoot(baseDir)
	}

	noColor := cli.NoColor || os.Getenv("NO_COLOR") != ""
	reporter := ui.NewRenderer(ui.Options{NoColor: noColor, Out: os.Stdout})

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&Context{
		Ctx:        ctx,
		Root:       root,
		ConfigPath: cli.Config,
		Reporter:   reporter,
		Logger:     logger,
	})
	if err != nil {
		var reportedErr *app.ReportedError
		if !errors.As(err, &reportedErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func resolveBaseDir(cwd, override string) (string, error) {
	if strings.TrimSpace(override) == "" {
		return cwd, nil
	}
	path := override
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}
	return path, nil
}
