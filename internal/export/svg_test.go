package export

import (
	"strings"
	"testing"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/grid"
	"github.com/san-kum/fieldsim/internal/tracer"
)

func TestSceneSVG(t *testing.T) {
	sys := field.Dipole(5, 1)
	lines := []tracer.Line{
		{{X: -5, Y: 2, Z: 0}, {X: 0, Y: 3, Z: 0}, {X: 5, Y: 2, Z: 0}},
	}

	svg := SceneSVG(sys, lines, 15, 600)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("unterminated SVG")
	}
	if strings.Count(svg, "<polyline") != 1 {
		t.Errorf("expected 1 polyline, got %d", strings.Count(svg, "<polyline"))
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 charge circles, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, "#d43b3b") || !strings.Contains(svg, "#3b6fd4") {
		t.Error("expected both polarity colors")
	}
	if strings.Count(svg, "<text") != 2 {
		t.Errorf("expected 2 magnitude labels, got %d", strings.Count(svg, "<text"))
	}
}

func TestSceneSVGSkipsDegenerate(t *testing.T) {
	svg := SceneSVG(field.Dipole(5, 1), []tracer.Line{{{X: 1, Y: 1, Z: 0}}}, 15, 600)
	if strings.Contains(svg, "<polyline") {
		t.Error("single-point line should not render")
	}
}

func TestContourSVG(t *testing.T) {
	segs := []grid.Segment{{A: field.Vec{X: 0, Y: -1}, B: field.Vec{X: 0, Y: 1}}}
	out := ContourSVG(segs, 15, 600)

	if !strings.Contains(out, "<line") {
		t.Error("expected a line element")
	}
	if !strings.Contains(out, "stroke-dasharray") {
		t.Error("contours should be dashed")
	}
}

func TestCanvasSVG(t *testing.T) {
	g := [][]rune{{0x2801, 0x2800}}
	svg := CanvasSVG(g, 4)

	if strings.Count(svg, "<circle") != 1 {
		t.Errorf("expected 1 dot, got %d", strings.Count(svg, "<circle"))
	}
	if CanvasSVG(nil, 4) != "" {
		t.Error("empty canvas should export nothing")
	}
}
