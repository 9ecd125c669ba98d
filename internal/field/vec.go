package field

import "math"

// Vec is a cartesian 3-vector. Field lines are traced in the z=0 plane,
// but positions and field values keep the third component.
type Vec struct {
	X, Y, Z float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f, v.Z * f} }

func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns the unit vector along v, or the zero vector if v has no
// magnitude.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n == 0 {
		return Vec{}
	}
	return v.Scale(1 / n)
}

func (v Vec) IsValid() bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// AngleBetween returns the angle between two vectors in radians.
// Degenerate inputs (zero vectors) produce NaN, which callers treat as
// a termination signal.
func AngleBetween(a, b Vec) float64 {
	return math.Acos(a.Dot(b) / (a.Norm() * b.Norm()))
}
