package tracer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/san-kum/fieldsim/internal/field"
)

// Line is a traced field line: an ordered list of points starting on the
// visual radius of a negative charge.
type Line []field.Vec

func (l Line) Last() field.Vec { return l[len(l)-1] }

// ArcLength returns the summed segment length of the line.
func (l Line) ArcLength() float64 {
	total := 0.0
	for i := 1; i < len(l); i++ {
		total += l[i].Sub(l[i-1]).Norm()
	}
	return total
}

// Settings controls how field lines are constructed. Resolution is the
// number of trace points per unit vector; ApproachTol is the angular
// tolerance (radians) under which a segment is considered to head into
// a charge.
type Settings struct {
	LinesPerCharge int
	Length         int
	Resolution     int
	ApproachTol    float64
}

func DefaultSettings() Settings {
	return Settings{
		LinesPerCharge: 20,
		Length:         20,
		Resolution:     1,
		ApproachTol:    1e-1,
	}
}

func (s Settings) Validate() error {
	if s.LinesPerCharge <= 0 {
		return fmt.Errorf("%w: lines per charge must be positive, got %d", field.ErrParameterBounds, s.LinesPerCharge)
	}
	if s.Length <= 0 {
		return fmt.Errorf("%w: length must be positive, got %d", field.ErrParameterBounds, s.Length)
	}
	if s.Resolution <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %d", field.ErrParameterBounds, s.Resolution)
	}
	if s.ApproachTol <= 0 {
		return fmt.Errorf("%w: approach tolerance must be positive, got %f", field.ErrParameterBounds, s.ApproachTol)
	}
	return nil
}

// Tracer constructs field lines for a charge system.
type Tracer struct {
	settings Settings
	stepper  Stepper
}

func New(settings Settings, stepper Stepper) *Tracer {
	return &Tracer{settings: settings, stepper: stepper}
}

func (t *Tracer) Settings() Settings { return t.settings }

// StartPoints returns n evenly fanned points on the visual radius circle
// around a charge, laid out as two opposing half-fans.
func StartPoints(c field.Charge, n int) []field.Vec {
	interval := 2 * math.Pi / float64(n)

	points := make([]field.Vec, 0, 2*(n/2))
	for i := 0; i < n/2; i++ {
		points = append(points, field.Vec{
			X: c.Position.X + field.VisualRadius*math.Sin(float64(i)*interval),
			Y: c.Position.Y + field.VisualRadius*math.Cos(float64(i)*interval),
		})
	}
	for i := 0; i < n/2; i++ {
		points = append(points, field.Vec{
			X: c.Position.X - field.VisualRadius*math.Sin(float64(i)*interval),
			Y: c.Position.Y - field.VisualRadius*math.Cos(float64(i)*interval),
		})
	}
	return points
}

// crossesCharge reports whether the segment old->next heads into any
// charge within the angular tolerance. A NaN angle (degenerate segment)
// also terminates the line.
func crossesCharge(sys *field.System, old, next field.Vec, tol float64) bool {
	seg := next.Sub(old)
	for _, c := range sys.Charges {
		bearing := c.Position.Sub(old)
		angle := field.AngleBetween(seg, bearing)
		if math.IsNaN(angle) || angle <= tol {
			return true
		}
	}
	return false
}

// Trace follows the field direction from start until the line reaches
// its configured length, approaches a charge, or degenerates. Context
// cancellation returns the partial line with the context error.
func (t *Tracer) Trace(ctx context.Context, sys *field.System, start field.Vec) (Line, error) {
	if len(sys.Charges) == 0 {
		return nil, field.ErrNoCharges
	}

	h := 1.0 / float64(t.settings.Resolution)
	steps := t.settings.Length * t.settings.Resolution

	line := make(Line, 0, steps+1)
	line = append(line, start)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return line, ctx.Err()
		default:
		}

		next := t.stepper.Step(sys, line.Last(), h)
		if !next.IsValid() {
			break
		}

		// The approach check is armed only once the line has left the
		// start circle, otherwise it would trip on its own charge.
		if i > 1 && crossesCharge(sys, line.Last(), next, t.settings.ApproachTol) {
			break
		}

		line = append(line, next)
	}

	return line, nil
}

// TraceAll constructs the fan of field lines from every negative charge,
// tracing start points across a bounded worker pool. The output order is
// deterministic: charges in system order, fan points in fan order.
func (t *Tracer) TraceAll(ctx context.Context, sys *field.System) ([]Line, error) {
	if err := t.settings.Validate(); err != nil {
		return nil, err
	}

	var starts []field.Vec
	for _, i := range sys.Negatives() {
		starts = append(starts, StartPoints(sys.Charges[i], t.settings.LinesPerCharge)...)
	}

	lines := make([]Line, len(starts))
	errs := make([]error, len(starts))

	workers := runtime.NumCPU()
	if workers > len(starts) {
		workers = len(starts)
	}

	var next int64 = -1
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(atomic.AddInt64(&next, 1))
				if idx >= len(starts) {
					return
				}
				lines[idx], errs[idx] = t.Trace(ctx, sys, starts[idx])
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return lines, err
		}
	}
	return lines, nil
}
