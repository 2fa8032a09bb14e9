package app

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Prompter asks the user to pick from a list of options.
type Prompter interface {
	Select(title string, options []string) (string, error)
	MultiSelect(title string, options []string) ([]string, error)
}

// TerminalPrompter runs an interactive picker on the terminal.
type TerminalPrompter struct{}

func (TerminalPrompter) Select(title string, options []string) (string, error) {
	picked, err := runPicker(newPicker(title, options, false))
	if err != nil {
		return "", err
	}
	if len(picked) == 0 {
		return "", fmt.Errorf("nothing selected for %s", strings.ToLower(title))
	}
	return picked[0], nil
}

func (TerminalPrompter) MultiSelect(title string, options []string) ([]string, error) {
	return runPicker(newPicker(title, options, true))
}

// pickerPage is the number of options shown at once.
const pickerPage = 10

type picker struct {
	title   string
	options []string
	multi   bool
	// shown holds indexes into options, best fuzzy match first.
	shown   []int
	query   string
	cursor  int
	marked  map[int]bool
	done    bool
	aborted bool
	styles  pickerStyles
}

func newPicker(title string, options []string, multi bool) picker {
	p := picker{
		title:   title,
		options: options,
		multi:   multi,
		marked:  map[int]bool{},
		styles:  newPickerStyles(),
	}
	p.refilter()
	return p
}

func runPicker(p picker) ([]string, error) {
	result, err := tea.NewProgram(p).Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(picker)
	if !ok {
		return nil, errors.New("unexpected picker result")
	}
	if final.aborted {
		return nil, errors.New("canceled")
	}
	return final.picked(), nil
}

// picked returns the marked options in their original order. Confirming
// without marking anything picks the option under the cursor.
func (p picker) picked() []string {
	var out []string
	for i, option := range p.options {
		if p.marked[i] {
			out = append(out, option)
		}
	}
	if len(out) == 0 && p.cursor < len(p.shown) {
		out = append(out, p.options[p.shown[p.cursor]])
	}
	return out
}

func (p picker) Init() tea.Cmd {
	return nil
}

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		p.aborted = true
		return p, tea.Quit
	case tea.KeyEnter:
		p.done = true
		return p, tea.Quit
	case tea.KeySpace:
		if p.multi && p.cursor < len(p.shown) {
			idx := p.shown[p.cursor]
			p.marked[idx] = !p.marked[idx]
		}
	case tea.KeyUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.KeyDown:
		p.cursor = min(p.cursor+1, max(len(p.shown)-1, 0))
	case tea.KeyBackspace:
		if runes := []rune(p.query); len(runes) > 0 {
			p.query = string(runes[:len(runes)-1])
			p.refilter()
		}
	case tea.KeyRunes:
		p.query += string(key.Runes)
		p.refilter()
	}
	return p, nil
}

func (p *picker) refilter() {
	p.shown = p.shown[:0]
	p.cursor = 0
	if strings.TrimSpace(p.query) == "" {
		for i := range p.options {
			p.shown = append(p.shown, i)
		}
		return
	}
	for _, match := range fuzzy.Find(strings.TrimSpace(p.query), p.options) {
		p.shown = append(p.shown, match.Index)
	}
}

func (p picker) View() string {
	if p.done || p.aborted {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", p.styles.title.Render(p.title+":"), p.query)

	start := max(0, p.cursor-pickerPage+1)
	end := min(len(p.shown), start+pickerPage)
	for row := start; row < end; row++ {
		idx := p.shown[row]
		prefix := "  "
		if row == p.cursor {
			prefix = p.styles.cursor.Render("> ")
		}
		if p.multi {
			box := "[ ] "
			if p.marked[idx] {
				box = p.styles.mark.Render("[x] ")
			}
			prefix += box
		}
		b.WriteString(prefix + p.options[idx] + "\n")
	}
	if len(p.shown) == 0 {
		b.WriteString(p.styles.muted.Render("no matches") + "\n")
	}

	help := "type to filter, enter to confirm, esc to cancel"
	if p.multi {
		help = "type to filter, space to mark, enter to confirm, esc to cancel"
	}
	b.WriteString("\n" + p.styles.muted.Render(help))
	return b.String()
}

type pickerStyles struct {
	title  lipgloss.Style
	cursor lipgloss.Style
	mark   lipgloss.Style
	muted  lipgloss.Style
}

func newPickerStyles() pickerStyles {
	return pickerStyles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		cursor: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		mark:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}
