package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/units"
)

const (
	historyCapacity = 600
	trailCapacity   = 240
)

// Options configures the live view.
type Options struct {
	FPS           int
	TicksPerFrame int
	// Limit stops the simulation after this many ticks; 0 runs until quit.
	Limit         int
	Width, Height int
	Theme         string
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.TicksPerFrame <= 0 {
		o.TicksPerFrame = 1
	}
	if o.Width <= 0 {
		o.Width = 60
	}
	if o.Height <= 0 {
		o.Height = 24
	}
	return o
}

type TickMsg time.Time

// Model is the Bubble Tea program driving a simulation in the terminal.
// Between frames it owns the simulation exclusively; it only reads
// snapshots to draw.
type Model struct {
	sim     *sim.Simulation
	opts    Options
	energy  *metrics.Energy
	canvas  *Canvas
	camera  *Camera
	scene   Scene
	theme   Theme
	snap    sim.Snapshot
	trails  map[string][]quantity.Point
	history []float64
	running bool
	help    bool
	err     error
}

func NewModel(s *sim.Simulation, opts Options) Model {
	opts = opts.withDefaults()
	m := Model{
		sim:     s,
		opts:    opts,
		energy:  metrics.NewEnergy(s.Constants().G),
		canvas:  NewCanvas(opts.Width, opts.Height),
		camera:  NewCamera(),
		theme:   GetTheme(opts.Theme),
		trails:  make(map[string][]quantity.Point),
		history: make([]float64, 0, historyCapacity),
		running: true,
	}
	m.observe(s.Snapshot())
	m.scene = NewScene(m.snap)
	return m
}

func (m Model) Init() tea.Cmd { return m.frame() }

func (m Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Err returns the tick error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Running() bool          { return m.running }
func (m Model) Snapshot() sim.Snapshot { return m.snap }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil && !m.done() {
				m.running = !m.running
			}
		case "?":
			m.help = !m.help
		case "t":
			m.theme = m.theme.Next()
		case "f":
			m.scene = NewScene(m.snap)
		case "r":
			m.camera.Reset()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case tea.WindowSizeMsg:
		w, h := max(msg.Width-40, 20), max(msg.Height-2, 8)
		if w != m.canvas.Width || h != m.canvas.Height {
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.frame()
	}
	return m, nil
}

func (m *Model) done() bool {
	return m.opts.Limit > 0 && m.sim.Steps() >= m.opts.Limit
}

// step advances the simulation by one frame's worth of ticks.
func (m *Model) step() {
	for i := 0; i < m.opts.TicksPerFrame; i++ {
		if m.done() {
			m.running = false
			break
		}
		if err := m.sim.Tick(); err != nil {
			m.err = err
			m.running = false
			break
		}
	}
	m.observe(m.sim.Snapshot())
}

func (m *Model) observe(snap sim.Snapshot) {
	m.snap = snap
	m.energy.OnTick(snap)
	if len(m.history) == historyCapacity {
		m.history = append(m.history[:0], m.history[1:]...)
	}
	m.history = append(m.history, m.energy.Last())
	for _, b := range snap.Bodies {
		trail := m.trails[b.Name]
		if len(trail) == trailCapacity {
			trail = append(trail[:0], trail[1:]...)
		}
		m.trails[b.Name] = append(trail, b.Position)
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.done():
		return StatusPaused.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m Model) View() string {
	m.canvas.Clear()
	markers := Render(m.canvas, m.camera, m.scene, m.snap, m.trails)
	canvasView := m.theme.canvas().Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.theme.title().Render(strings.ToUpper(m.snap.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(formatDuration(m.snap.Time)) + "\n")
	s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%d", m.snap.Step)) + "\n")
	s.WriteString(MetricLabel.Render("dt") + MetricValue.Render(fmt.Sprintf("%gs", m.sim.Dt.Float())) + "\n")
	s.WriteString(MetricLabel.Render("Energy") + MetricValue.Render(fmt.Sprintf("%.4e J", m.energy.Last())) + "\n")
	s.WriteString(MetricLabel.Render("Zoom") + MetricValue.Render(fmt.Sprintf("%.2fx", m.camera.Zoom)) + "\n")
	if m.opts.Limit > 0 {
		s.WriteString(ProgressBar(float64(m.snap.Step)/float64(m.opts.Limit), 24) + "\n")
	}
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total energy"))
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString("\n" + Separator(32) + "\n")
	visible := make(map[string]bool, len(markers))
	for _, mk := range markers {
		visible[mk.Name] = true
	}
	for _, b := range m.snap.Bodies {
		mark := "●"
		if !visible[b.Name] {
			mark = "○"
		}
		s.WriteString(BodyStyle(b.Hint).Render(mark) + " " + fmt.Sprintf("%-12s %s", b.Name, b.Kind) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("space:pause q:quit ?:help"))
	if m.help {
		s.WriteString("\n" + KeyHint.Render("x/y/z rotate (shift reverses)\n+/- zoom  r reset view\nf refit  t theme"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.theme.panel().Render(s.String()))
}

func formatDuration(seconds float64) string {
	if seconds < units.Day {
		return fmt.Sprintf("%.0fs", seconds)
	}
	return fmt.Sprintf("%.1f days", seconds/units.Day)
}

// Play runs the live view until the user quits and returns the tick error
// that stopped the simulation, if any.
func Play(s *sim.Simulation, opts Options) error {
	final, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
