package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel() Model {
	return NewModel(field.Diagonal(3), tracer.DefaultSettings(), 1, "euler")
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatal("update changed model type")
	}
	return out
}

func TestModelTracesOnConstruction(t *testing.T) {
	m := newTestModel()
	if len(m.lines) == 0 {
		t.Fatal("expected initial field lines")
	}
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
}

func TestModelMoveSelectedCharge(t *testing.T) {
	m := newTestModel()
	x0 := m.sys.Charges[0].Position.X

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.sys.Charges[0].Position.X != x0+1 {
		t.Errorf("expected x %f, got %f", x0+1, m.sys.Charges[0].Position.X)
	}
}

func TestModelMoveClampsToRange(t *testing.T) {
	m := newTestModel()
	for i := 0; i < 30; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if m.sys.Charges[0].Position.X != -positionLim {
		t.Errorf("expected clamp at %f, got %f", -positionLim, m.sys.Charges[0].Position.X)
	}
}

func TestModelPolarityFlip(t *testing.T) {
	m := newTestModel()
	q0 := m.sys.Charges[0].Value

	m = update(t, m, key("p"))
	if m.sys.Charges[0].Value != -q0 {
		t.Errorf("expected flipped charge %f, got %f", -q0, m.sys.Charges[0].Value)
	}
}

func TestModelAddRemoveChargeBounds(t *testing.T) {
	m := newTestModel()

	for i := 0; i < 20; i++ {
		m = update(t, m, key("a"))
	}
	if len(m.sys.Charges) != chargesInterval[1] {
		t.Errorf("expected max %d charges, got %d", chargesInterval[1], len(m.sys.Charges))
	}

	for i := 0; i < 20; i++ {
		m = update(t, m, key("d"))
	}
	if len(m.sys.Charges) != chargesInterval[0] {
		t.Errorf("expected min %d charges, got %d", chargesInterval[0], len(m.sys.Charges))
	}
	if m.selected >= len(m.sys.Charges) {
		t.Errorf("selection out of range: %d", m.selected)
	}
}

func TestModelSettingsStepWithinIntervals(t *testing.T) {
	m := newTestModel()

	for i := 0; i < 40; i++ {
		m = update(t, m, key("N"))
	}
	if m.settings.LinesPerCharge != linesInterval[1] {
		t.Errorf("expected %d lines per charge, got %d", linesInterval[1], m.settings.LinesPerCharge)
	}

	for i := 0; i < 40; i++ {
		m = update(t, m, key("n"))
	}
	if m.settings.LinesPerCharge != linesInterval[0] {
		t.Errorf("expected %d lines per charge, got %d", linesInterval[0], m.settings.LinesPerCharge)
	}
}

func TestModelToleranceKeyUpdatesSettings(t *testing.T) {
	m := newTestModel()
	m = update(t, m, key("T"))

	if m.tolExp != 2 {
		t.Fatalf("expected exponent 2, got %d", m.tolExp)
	}
	if m.settings.ApproachTol != 0.01 {
		t.Errorf("expected tolerance 0.01, got %g", m.settings.ApproachTol)
	}
}

func TestModelResetRestoresCharges(t *testing.T) {
	m := newTestModel()
	x0 := m.sys.Charges[0].Position.X

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, key("a"))
	m = update(t, m, key("x"))

	if len(m.sys.Charges) != 3 {
		t.Errorf("expected 3 charges after reset, got %d", len(m.sys.Charges))
	}
	if m.sys.Charges[0].Position.X != x0 {
		t.Errorf("expected x %f after reset, got %f", x0, m.sys.Charges[0].Position.X)
	}
}

func TestModelCycleStepper(t *testing.T) {
	m := newTestModel()
	first := m.stepper

	m = update(t, m, key("s"))
	if m.stepper == first {
		t.Error("expected stepper to change")
	}

	for range tracer.ListSteppers() {
		if m.stepper == first {
			break
		}
		m = update(t, m, key("s"))
	}
	if m.stepper != first {
		t.Error("cycling should return to the first stepper")
	}
}

func TestModelViewRenders(t *testing.T) {
	m := newTestModel()
	out := m.View()

	if out == "" {
		t.Fatal("empty view")
	}
	for _, want := range []string{"ELECTRIC FIELD", "CHARGES", "SETTINGS"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
