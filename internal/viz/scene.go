package viz

import (
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

// Scene draws a charge system and its field lines onto a canvas.
type Scene struct {
	Canvas   *Canvas
	Viewport *Viewport
}

func NewScene(width, height int, extent float64) *Scene {
	c := NewCanvas(width, height)
	return &Scene{
		Canvas:   c,
		Viewport: NewViewport(c, -extent, extent, -extent, extent),
	}
}

// Render clears the canvas and draws lines first, then charge glyphs on
// top so they stay visible.
func (s *Scene) Render(sys *field.System, lines []tracer.Line) {
	s.Canvas.Clear()

	for _, line := range lines {
		s.Viewport.DrawPolyline(line)
	}

	for _, c := range sys.Charges {
		col, row := s.Viewport.Cell(c.Position)
		glyph := '-'
		if c.Positive() {
			glyph = '+'
		}
		s.Canvas.PutRune(col, row, glyph)
	}
}

func (s *Scene) String() string {
	return s.Canvas.String()
}
