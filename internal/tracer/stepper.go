package tracer

import (
	"fmt"
	"sort"

	"github.com/san-kum/fieldsim/internal/field"
)

// Stepper advances a trace point by step size h along the field
// direction. Steppers follow the normalized field, so h is an arc
// length, not a time step.
type Stepper interface {
	Step(sys *field.System, p field.Vec, h float64) field.Vec
}

// Euler takes a single unit-vector step along the local field.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(sys *field.System, p field.Vec, h float64) field.Vec {
	return p.Add(sys.FieldAt(p).Unit().Scale(h))
}

// RK4 samples the field direction at four stages for a smoother line
// near strong curvature.
type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Step(sys *field.System, p field.Vec, h float64) field.Vec {
	k1 := sys.FieldAt(p).Unit()
	k2 := sys.FieldAt(p.Add(k1.Scale(h / 2))).Unit()
	k3 := sys.FieldAt(p.Add(k2.Scale(h / 2))).Unit()
	k4 := sys.FieldAt(p.Add(k3.Scale(h))).Unit()

	dir := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return p.Add(dir.Scale(h / 6))
}

var steppers = map[string]func() Stepper{
	"euler": func() Stepper { return NewEuler() },
	"rk4":   func() Stepper { return NewRK4() },
}

// NewStepper looks up a stepper by name.
func NewStepper(name string) (Stepper, error) {
	fn, ok := steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(), nil
}

func ListSteppers() []string {
	names := make([]string, 0, len(steppers))
	for name := range steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
