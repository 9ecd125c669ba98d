package field

import "math"

// Vacuum permittivity and the Coulomb constant k = 1/(4*pi*eps0).
const (
	Epsilon0 = 8.8541878128e-12
)

var CoulombK = 1.0 / (4.0 * math.Pi * Epsilon0)

// VisualRadius is the rendered radius of a charge. Field lines start on
// this circle rather than at the singular point.
const VisualRadius = 0.2

// Charge is a point charge: a position and a signed magnitude in
// arbitrary charge units.
type Charge struct {
	Position Vec
	Value    float64
}

func (c Charge) Positive() bool { return c.Value > 0 }

// System is a collection of point charges defining an electric field.
type System struct {
	Charges []Charge
}

func NewSystem(charges ...Charge) *System {
	return &System{Charges: charges}
}

func (s *System) Clone() *System {
	c := make([]Charge, len(s.Charges))
	copy(c, s.Charges)
	return &System{Charges: c}
}

// FieldAt returns the superposed Coulomb force vector at p. A charge
// coincident with p contributes nothing rather than a singularity.
func (s *System) FieldAt(p Vec) Vec {
	var f Vec
	for _, c := range s.Charges {
		d := c.Position.Sub(p)
		r2 := d.Dot(d)
		if r2 == 0 {
			continue
		}
		f = f.Add(d.Unit().Scale(CoulombK * c.Value / r2))
	}
	return f
}

// PotentialAt returns the scalar potential k*q/r superposed over all
// charges, skipping any charge coincident with p.
func (s *System) PotentialAt(p Vec) float64 {
	v := 0.0
	for _, c := range s.Charges {
		r := c.Position.Sub(p).Norm()
		if r == 0 {
			continue
		}
		v += CoulombK * c.Value / r
	}
	return v
}

// Energy returns the pairwise electrostatic interaction energy of the
// configuration.
func (s *System) Energy() float64 {
	e := 0.0
	for i := 0; i < len(s.Charges); i++ {
		for j := i + 1; j < len(s.Charges); j++ {
			r := s.Charges[j].Position.Sub(s.Charges[i].Position).Norm()
			if r == 0 {
				continue
			}
			e += CoulombK * s.Charges[i].Value * s.Charges[j].Value / r
		}
	}
	return e
}

// Negatives returns the indices of negative charges, the ones field
// lines are traced from.
func (s *System) Negatives() []int {
	var idx []int
	for i, c := range s.Charges {
		if !c.Positive() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Nearest returns the index of the charge closest to p, or -1 for an
// empty system.
func (s *System) Nearest(p Vec) int {
	best, min := -1, math.MaxFloat64
	for i, c := range s.Charges {
		d := c.Position.Sub(p)
		if r2 := d.Dot(d); r2 < min {
			min, best = r2, i
		}
	}
	return best
}
