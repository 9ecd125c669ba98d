package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

const (
	canvasWidth  = 80
	canvasHeight = 24
	extent       = 15.0
	positionLim  = 10.0
)

// Control intervals, shared with the web UI's slider ranges.
var (
	linesInterval      = [3]int{6, 40, 2}
	lengthInterval     = [3]int{10, 100, 10}
	resolutionInterval = [3]int{1, 10, 1}
	tolExpInterval     = [3]int{1, 10, 1}
	chargesInterval    = [2]int{2, 8}
)

// Model is the live field view: charges are moved with the arrow keys
// and the trace settings tuned with letter keys, retracing on every
// change.
type Model struct {
	sys      *field.System
	initial  *field.System
	settings tracer.Settings
	tolExp   int
	stepper  string
	lines    []tracer.Line
	scene    *Scene
	selected int
	showHelp bool
	err      error
}

// NewModel builds the live view around an initial charge system.
func NewModel(sys *field.System, settings tracer.Settings, tolExp int, stepper string) Model {
	m := Model{
		sys:      sys,
		initial:  sys.Clone(),
		settings: settings,
		tolExp:   tolExp,
		stepper:  stepper,
		scene:    NewScene(canvasWidth, canvasHeight, extent),
	}
	m.settings.ApproachTol = tolerance(tolExp)
	m.retrace()
	return m
}

func tolerance(exp int) float64 {
	tol := 1.0
	for i := 0; i < exp; i++ {
		tol /= 10
	}
	return tol
}

func (m *Model) retrace() {
	st, err := tracer.NewStepper(m.stepper)
	if err != nil {
		m.err = err
		return
	}
	m.lines, m.err = tracer.New(m.settings, st).TraceAll(context.Background(), m.sys)
	m.scene.Render(m.sys, m.lines)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "tab":
		m.selected = (m.selected + 1) % len(m.sys.Charges)
		return m, nil
	case "left":
		m.moveSelected(-1, 0)
	case "right":
		m.moveSelected(1, 0)
	case "up":
		m.moveSelected(0, 1)
	case "down":
		m.moveSelected(0, -1)
	case "p", "P":
		c := &m.sys.Charges[m.selected]
		c.Value = -c.Value
	case "a", "A":
		m.addCharge()
	case "d", "D":
		m.removeCharge()
	case "n":
		m.settings.LinesPerCharge = stepDown(m.settings.LinesPerCharge, linesInterval)
	case "N":
		m.settings.LinesPerCharge = stepUp(m.settings.LinesPerCharge, linesInterval)
	case "l":
		m.settings.Length = stepDown(m.settings.Length, lengthInterval)
	case "L":
		m.settings.Length = stepUp(m.settings.Length, lengthInterval)
	case "r":
		m.settings.Resolution = stepDown(m.settings.Resolution, resolutionInterval)
	case "R":
		m.settings.Resolution = stepUp(m.settings.Resolution, resolutionInterval)
	case "t":
		m.tolExp = stepDown(m.tolExp, tolExpInterval)
		m.settings.ApproachTol = tolerance(m.tolExp)
	case "T":
		m.tolExp = stepUp(m.tolExp, tolExpInterval)
		m.settings.ApproachTol = tolerance(m.tolExp)
	case "s", "S":
		m.cycleStepper()
	case "x", "X":
		m.sys = m.initial.Clone()
		m.selected = 0
	default:
		return m, nil
	}

	m.retrace()
	return m, nil
}

func stepUp(v int, interval [3]int) int {
	v += interval[2]
	if v > interval[1] {
		v = interval[1]
	}
	return v
}

func stepDown(v int, interval [3]int) int {
	v -= interval[2]
	if v < interval[0] {
		v = interval[0]
	}
	return v
}

func (m *Model) moveSelected(dx, dy float64) {
	c := &m.sys.Charges[m.selected]
	c.Position.X = clamp(c.Position.X+dx, -positionLim, positionLim)
	c.Position.Y = clamp(c.Position.Y+dy, -positionLim, positionLim)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *Model) addCharge() {
	if len(m.sys.Charges) >= chargesInterval[1] {
		return
	}
	q := 1.0
	if len(m.sys.Charges)%2 == 0 {
		q = -1.0
	}
	m.sys.Charges = append(m.sys.Charges, field.Charge{Value: q})
	m.selected = len(m.sys.Charges) - 1
}

func (m *Model) removeCharge() {
	if len(m.sys.Charges) <= chargesInterval[0] {
		return
	}
	m.sys.Charges = append(m.sys.Charges[:m.selected], m.sys.Charges[m.selected+1:]...)
	if m.selected >= len(m.sys.Charges) {
		m.selected = len(m.sys.Charges) - 1
	}
}

func (m *Model) cycleStepper() {
	names := tracer.ListSteppers()
	for i, name := range names {
		if name == m.stepper {
			m.stepper = names[(i+1)%len(names)]
			return
		}
	}
	m.stepper = names[0]
}

// potentialProfile samples the potential along the horizontal line
// through the selected charge, for the side graph.
func (m *Model) potentialProfile() []float64 {
	const samples = 60
	y := m.sys.Charges[m.selected].Position.Y

	data := make([]float64, samples)
	for i := range data {
		x := -extent + 2*extent*float64(i)/float64(samples-1)
		data[i] = m.sys.PotentialAt(field.Vec{X: x, Y: y}) / field.CoulombK
	}
	return data
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.scene.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("ELECTRIC FIELD") + "\n")

	if m.err != nil {
		s.WriteString(fmt.Sprintf("error: %v\n", m.err))
	}

	s.WriteString(labelStyle.Render("Lines") + valueStyle.Render(fmt.Sprintf("%d", len(m.lines))) + "\n")
	s.WriteString(labelStyle.Render("Stepper") + valueStyle.Render(m.stepper) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.3e", m.sys.Energy())) + "\n")

	s.WriteString("\nCHARGES\n")
	for i, c := range m.sys.Charges {
		sign := negativeStyle.Render("-")
		if c.Positive() {
			sign = positiveStyle.Render("+")
		}
		line := fmt.Sprintf("Q%d %s (%+.0f, %+.0f)", i, sign, c.Position.X, c.Position.Y)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	s.WriteString("\nSETTINGS\n")
	s.WriteString(fmt.Sprintf("  lines/charge  %d\n", m.settings.LinesPerCharge))
	s.WriteString(fmt.Sprintf("  length        %d\n", m.settings.Length))
	s.WriteString(fmt.Sprintf("  resolution    %d\n", m.settings.Resolution))
	s.WriteString(fmt.Sprintf("  tolerance     1e-%d\n", m.tolExp))

	profile := m.potentialProfile()
	chart := asciigraph.Plot(profile, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("V/k along selected row"))
	s.WriteString(graphStyle.Render(chart) + "\n")

	s.WriteString(helpStyle.Render("─────────────────────\nArrows:Move Tab:Next P:Flip\nA/D:Add/Del S:Stepper X:Reset Q:Quit ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpScreen + "\n\n" + mainView
	}
	return mainView
}

const helpScreen = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Arrows   - Move selected charge     ║
║  Tab      - Select next charge       ║
║  P        - Flip charge polarity     ║
║  A / D    - Add / remove charge      ║
║  N / n    - Lines per charge + / -   ║
║  L / l    - Line length + / -        ║
║  R / r    - Resolution + / -         ║
║  T / t    - Tolerance exponent + / - ║
║  S        - Cycle stepper            ║
║  X        - Reset charges            ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive starts the live TUI program.
func RunLive(sys *field.System, settings tracer.Settings, tolExp int, stepper string) error {
	p := tea.NewProgram(NewModel(sys, settings, tolExp, stepper))
	_, err := p.Run()
	return err
}
