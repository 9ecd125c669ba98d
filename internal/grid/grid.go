package grid

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/fieldsim/internal/field"
)

// Bounds is the rectangular sampling window in the z=0 plane.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (b Bounds) Valid() bool {
	return b.XMax > b.XMin && b.YMax > b.YMin
}

// Map holds scalar samples over a regular grid, row-major with Ny rows.
type Map struct {
	Bounds Bounds
	Nx, Ny int
	Values []float64
}

func (m *Map) At(ix, iy int) float64 { return m.Values[iy*m.Nx+ix] }

// Point returns the sample position of cell (ix, iy).
func (m *Map) Point(ix, iy int) field.Vec {
	return field.Vec{
		X: m.Bounds.XMin + (m.Bounds.XMax-m.Bounds.XMin)*float64(ix)/float64(m.Nx-1),
		Y: m.Bounds.YMin + (m.Bounds.YMax-m.Bounds.YMin)*float64(iy)/float64(m.Ny-1),
	}
}

// MinMax returns the finite extrema of the map.
func (m *Map) MinMax() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range m.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// parallelFor executes fn over [0, n) in chunks across the available
// CPUs.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

func sample(ctx context.Context, sys *field.System, b Bounds, nx, ny int, eval func(field.Vec) float64) (*Map, error) {
	if len(sys.Charges) == 0 {
		return nil, field.ErrNoCharges
	}
	if !b.Valid() {
		return nil, fmt.Errorf("%w: empty bounds", field.ErrParameterBounds)
	}
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%w: grid needs at least 2x2 samples, got %dx%d", field.ErrParameterBounds, nx, ny)
	}

	m := &Map{Bounds: b, Nx: nx, Ny: ny, Values: make([]float64, nx*ny)}

	parallelFor(ny, 1, func(start, end int) {
		for iy := start; iy < end; iy++ {
			if ctx.Err() != nil {
				return
			}
			for ix := 0; ix < nx; ix++ {
				m.Values[iy*nx+ix] = eval(m.Point(ix, iy))
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Potential samples the scalar potential over the bounds.
func Potential(ctx context.Context, sys *field.System, b Bounds, nx, ny int) (*Map, error) {
	return sample(ctx, sys, b, nx, ny, sys.PotentialAt)
}

// Magnitude samples |E| over the bounds.
func Magnitude(ctx context.Context, sys *field.System, b Bounds, nx, ny int) (*Map, error) {
	return sample(ctx, sys, b, nx, ny, func(p field.Vec) float64 {
		return sys.FieldAt(p).Norm()
	})
}
