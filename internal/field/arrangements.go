package field

import "math/rand"

// Dipole places a +q and a -q charge on the x axis, 2*sep apart.
func Dipole(sep, q float64) *System {
	return NewSystem(
		Charge{Vec{-sep, 0, 0}, q},
		Charge{Vec{sep, 0, 0}, -q},
	)
}

// Quadrupole places alternating charges on the corners of a square of
// half-width sep.
func Quadrupole(sep, q float64) *System {
	return NewSystem(
		Charge{Vec{-sep, -sep, 0}, q},
		Charge{Vec{sep, -sep, 0}, -q},
		Charge{Vec{sep, sep, 0}, q},
		Charge{Vec{-sep, sep, 0}, -q},
	)
}

// Diagonal places n unit charges of alternating sign along the main
// diagonal from (-10,-10), spaced 2 apart. This is the layout the
// interactive surfaces start from.
func Diagonal(n int) *System {
	s := &System{}
	for i := 0; i < n; i++ {
		q := 1.0
		if i%2 == 0 {
			q = -1.0
		}
		s.Charges = append(s.Charges, Charge{
			Position: Vec{-10 + float64(i)*2, -10 + float64(i)*2, 0},
			Value:    q,
		})
	}
	return s
}

// Demo is the classic four-charge showcase layout.
func Demo() *System {
	return NewSystem(
		Charge{Vec{-10, 0, 0}, 1},
		Charge{Vec{5, 0, 0}, -1},
		Charge{Vec{3, 10, 0}, -1},
		Charge{Vec{0, 8, 0}, 1},
	)
}

// Random scatters n unit charges of random sign in [-lim, lim]^2 using
// the given seed.
func Random(n int, lim float64, seed int64) *System {
	rng := rand.New(rand.NewSource(seed))
	s := &System{}
	for i := 0; i < n; i++ {
		q := 1.0
		if rng.Intn(2) == 0 {
			q = -1.0
		}
		s.Charges = append(s.Charges, Charge{
			Position: Vec{
				X: (rng.Float64()*2 - 1) * lim,
				Y: (rng.Float64()*2 - 1) * lim,
			},
			Value: q,
		})
	}
	return s
}
