package grid

import "github.com/san-kum/fieldsim/internal/field"

// Segment is one straight piece of an equipotential contour.
type Segment struct {
	A, B field.Vec
}

// lerp finds the crossing point of the level between two samples.
func lerp(p, q field.Vec, vp, vq, level float64) field.Vec {
	t := (level - vp) / (vq - vp)
	return p.Add(q.Sub(p).Scale(t))
}

// Contour extracts the equipotential at the given level by walking the
// grid cells and interpolating crossings along cell edges.
func Contour(m *Map, level float64) []Segment {
	var segs []Segment

	for iy := 0; iy < m.Ny-1; iy++ {
		for ix := 0; ix < m.Nx-1; ix++ {
			// Cell corners, counterclockwise from bottom-left.
			pts := [4]field.Vec{
				m.Point(ix, iy), m.Point(ix+1, iy),
				m.Point(ix+1, iy+1), m.Point(ix, iy+1),
			}
			vals := [4]float64{
				m.At(ix, iy), m.At(ix+1, iy),
				m.At(ix+1, iy+1), m.At(ix, iy+1),
			}

			var crossings []field.Vec
			for e := 0; e < 4; e++ {
				f := (e + 1) % 4
				a, b := vals[e], vals[f]
				if (a < level) == (b < level) || a == b {
					continue
				}
				crossings = append(crossings, lerp(pts[e], pts[f], a, b, level))
			}

			// Ambiguous saddle cells (4 crossings) are split pairwise,
			// which is good enough for display purposes.
			for i := 0; i+1 < len(crossings); i += 2 {
				segs = append(segs, Segment{A: crossings[i], B: crossings[i+1]})
			}
		}
	}

	return segs
}
