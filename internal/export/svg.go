package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/grid"
	"github.com/san-kum/fieldsim/internal/tracer"
)

// SceneSVG renders charges and field lines as an SVG document. Lines are
// black polylines, charges red (+) or blue (-) circles at the visual
// radius, labelled with their magnitude.
func SceneSVG(sys *field.System, lines []tracer.Line, extent float64, size int) string {
	scale := float64(size) / (2 * extent)
	px := func(p field.Vec) (float64, float64) {
		return (p.X + extent) * scale, (extent - p.Y) * scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, size, size, size, size))

	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		sb.WriteString(`<polyline fill="none" stroke="#000000" stroke-width="1" points="`)
		for i, p := range line {
			x, y := px(p)
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString("\"/>\n")
	}

	for _, c := range sys.Charges {
		x, y := px(c.Position)
		color := "#3b6fd4"
		if c.Positive() {
			color = "#d43b3b"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, field.VisualRadius*scale, color))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%.0f" fill="#000000">%g</text>
`, x+field.VisualRadius*scale, y-2, scale*0.8, c.Value))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ContourSVG overlays equipotential segments on a scene SVG body. The
// caller composes it before the closing tag; kept separate so the plain
// scene export stays small.
func ContourSVG(segs []grid.Segment, extent float64, size int) string {
	scale := float64(size) / (2 * extent)
	px := func(p field.Vec) (float64, float64) {
		return (p.X + extent) * scale, (extent - p.Y) * scale
	}

	var sb strings.Builder
	sb.WriteString(`<g stroke="#9a9a9a" stroke-width="0.5" stroke-dasharray="3,2">` + "\n")
	for _, s := range segs {
		x1, y1 := px(s.A)
		x2, y2 := px(s.B)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x1, y1, x2, y2))
	}
	sb.WriteString("</g>\n")
	return sb.String()
}

// CanvasSVG converts a braille canvas to SVG dots, for capturing the
// terminal rendering.
func CanvasSVG(cells [][]rune, scale float64) string {
	if len(cells) == 0 {
		return ""
	}

	height := float64(len(cells)) * scale * 4
	width := float64(len(cells[0])) * scale * 2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4
	for row := range cells {
		for col, r := range cells[row] {
			if r < 0x2800 || r > 0x28FF {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
