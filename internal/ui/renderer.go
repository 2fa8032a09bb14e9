package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/GhostScientist/dev-toolbox/internal/app"
	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/linkcheck"
)

type Options struct {
	NoColor bool
	Out     io.Writer
	// TTY forces terminal behaviour on or off; nil detects it from stdout.
	TTY *bool
}

type Renderer struct {
	out     io.Writer
	isTTY   bool
	noColor bool
	styles  styles
}

type styles struct {
	info    lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	error   lipgloss.Style
	label   lipgloss.Style
	tag     lipgloss.Style
	summary lipgloss.Style
}

var _ app.Reporter = (*Renderer)(nil)

func NewRenderer(opts Options) *Renderer {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.TTY != nil {
		isTTY = *opts.TTY
	}
	profile := termenv.EnvColorProfile()
	if opts.NoColor || !isTTY {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	return &Renderer{
		out:     out,
		isTTY:   isTTY,
		noColor: opts.NoColor || profile == termenv.Ascii,
		styles: styles{
			info:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
			ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
			warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
			error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("105")),
			summary: lipgloss.NewStyle().Bold(true),
		},
	}
}

func (r *Renderer) Info(message string) {
	r.println(r.styles.info.Render(message))
}

func (r *Renderer) Warn(message string) {
	r.println(r.styles.warn.Render("warning") + " " + message)
}

// Problem prints the plain "<path>: <field>: <rule>: <message>" line so that
// editors and CI annotations can parse it; only the rule is styled.
func (r *Renderer) Problem(problem app.Problem) {
	line := problem.String()
	if !r.noColor {
		line = strings.Replace(line, ": "+problem.Rule+": ", ": "+r.styles.error.Render(problem.Rule)+": ", 1)
	}
	r.println(line)
}

func (r *Renderer) ValidSummary(kind catalog.Kind, valid, total int) {
	style := r.styles.ok
	if valid != total {
		style = r.styles.warn
	}
	r.println(fmt.Sprintf("%s %d/%d %s valid", style.Render(string(kind)), valid, total, kind))
}

func (r *Renderer) ValidateSummary(problems int) {
	if problems == 0 {
		r.println(r.styles.ok.Render("all validations passed"))
		return
	}
	noun := "problems"
	if problems == 1 {
		noun = "problem"
	}
	r.println(r.styles.error.Render(fmt.Sprintf("validation failed with %d %s", problems, noun)))
}

func (r *Renderer) LinkFailed(result linkcheck.Result) {
	label := r.styles.warn.Render(string(result.Class))
	if result.Class == linkcheck.ClassCritical {
		label = r.styles.error.Render(string(result.Class))
	}
	r.println(fmt.Sprintf("%s %s: %s", label, result.URL, result.Problem()))
}

func (r *Renderer) LinkSummary(summary app.LinkSummary) {
	msg := fmt.Sprintf("summary: %d/%d links working", summary.Checked-summary.Failed, summary.Checked)
	if summary.Skipped > 0 {
		msg += fmt.Sprintf(", %d skipped", summary.Skipped)
	}
	r.println(r.styles.summary.Render(msg))
	switch {
	case summary.CriticalFailed > 0:
		r.println(r.styles.error.Render(fmt.Sprintf("%d critical link(s) failed", summary.CriticalFailed)))
	case summary.Failed > 0:
		r.println(r.styles.warn.Render(fmt.Sprintf("%d non-critical link(s) failed, consider reviewing", summary.Failed)))
	case summary.Checked > 0:
		r.println(r.styles.ok.Render("all links are working"))
	}
}

func (r *Renderer) Entry(id, title string, category catalog.Category, tags []string) {
	parts := []string{r.styles.summary.Render(title), r.styles.label.Render("(" + id + ")"), string(category)}
	if len(tags) > 0 {
		parts = append(parts, r.styles.tag.Render("#"+strings.Join(tags, " #")))
	}
	r.println(strings.Join(parts, "  "))
}

func (r *Renderer) Tags(tags []string) {
	for _, tag := range tags {
		r.println(r.styles.tag.Render(tag))
	}
}

func (r *Renderer) SearchSummary(shown, total int) {
	r.println(r.styles.label.Render(fmt.Sprintf("%d of %d shown", shown, total)))
}

func (r *Renderer) Section(title string) {
	r.println(r.styles.summary.Render(title))
}

func (r *Renderer) ToolDetail(tool catalog.Tool) {
	r.println(r.styles.summary.Render(tool.Name) + "  " + r.styles.label.Render("("+tool.ID+")"))
	r.field("category", string(tool.Category))
	r.field("pricing", string(tool.Pricing))
	r.field("tags", r.styles.tag.Render("#"+strings.Join(tool.Tags, " #")))
	r.field("website", tool.Website)
	r.field("github", tool.GitHub)
	r.field("docs", tool.Docs)
	r.field("summary", tool.Summary)
	r.field("why", tool.Why)
	r.field("getting started", tool.GettingStarted)
	r.field("added by", addedBy(tool.AddedBy))
}

func (r *Renderer) TipDetail(tip catalog.Tip) {
	r.println(r.styles.summary.Render(tip.Title) + "  " + r.styles.label.Render("("+tip.ID+")"))
	r.field("category", string(tip.Category))
	r.field("tags", r.styles.tag.Render("#"+strings.Join(tip.Tags, " #")))
	r.field("summary", tip.Summary)
	r.field("added by", addedBy(tip.AddedBy))
	fmt.Fprintf(r.out, "\n%s\n", strings.TrimSpace(tip.Content))
}

// field prints "label: value", skipping empty values.
func (r *Renderer) field(label, value string) {
	if value == "" {
		return
	}
	r.println(r.styles.label.Render(label+":") + " " + value)
}

func addedBy(a catalog.AddedBy) string {
	if a.Name == "" {
		return ""
	}
	return a.Name + " on " + a.Date
}

func (r *Renderer) Progress(label string, total int) app.ProgressReporter {
	if total <= 0 || !r.isTTY {
		return noopProgress{}
	}
	return &progressReporter{
		out:   r.out,
		total: total,
		label: label,
		model: progress.New(
			progress.WithWidth(28),
			progress.WithDefaultGradient(),
		),
	}
}

func (r *Renderer) println(message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	fmt.Fprintln(r.out, message)
}

// progressReporter redraws a single line in place.
type progressReporter struct {
	out     io.Writer
	model   progress.Model
	total   int
	current int
	label   string
}

func (p *progressReporter) Increment(label string) {
	p.current++
	p.render(label)
}

func (p *progressReporter) Done() {
	p.current = p.total
	p.render("")
	fmt.Fprint(p.out, "\r\033[K")
}

func (p *progressReporter) render(detail string) {
	percent := float64(p.current) / float64(p.total)
	line := fmt.Sprintf("%s %s %d/%d %s", p.label, p.model.ViewAs(percent), p.current, p.total, truncate(detail, 48))
	fmt.Fprint(p.out, "\r\033[K"+line)
}

type noopProgress struct{}

func (n noopProgress) Increment(string) {}
func (n noopProgress) Done()            {}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
