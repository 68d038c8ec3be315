package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orbitsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	bright = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pink   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
)

// Loader builds a fresh simulation for a named scenario.
type Loader func(name string) (*sim.Simulation, error)

// Choice is one entry of the scenario menu.
type Choice struct {
	Name        string
	Description string
}

// Picker lists scenarios and opens the live view on the selected one.
type Picker struct {
	choices []Choice
	cursor  int
	load    Loader
	opts    Options
	live    *Model
	err     error
}

func NewPicker(choices []Choice, load Loader, opts Options) Picker {
	return Picker{choices: choices, load: load, opts: opts}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.live = nil
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.choices)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.choices) == 0 {
			return p, nil
		}
		s, err := p.load(p.choices[p.cursor].Name)
		if err != nil {
			p.err = err
			return p, nil
		}
		p.err = nil
		live := NewModel(s, p.opts)
		p.live = &live
		return p, live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("ORBITSIM", "#00ffff", "#ff00ff") + "\n    " + Subtle.Render("n-body gravity simulator") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, c := range p.choices {
		desc := c.Description
		if len(desc) > 32 {
			desc = desc[:29] + "..."
		}
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cyan.Render("▸"), bright.Render(fmt.Sprintf("%-14s", c.Name)), pink.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-14s", c.Name)), dimmer.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + StatusFailed.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + cyan.Render("j/k") + dim.Render(" navigate  ") + cyan.Render("enter") + dim.Render(" open  ") + cyan.Render("esc") + dim.Render(" back  ") + cyan.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

// RunPicker shows the scenario menu until the user quits.
func RunPicker(choices []Choice, load Loader, opts Options) error {
	_, err := tea.NewProgram(NewPicker(choices, load, opts), tea.WithAltScreen()).Run()
	return err
}
