package viz

import (
	"strings"

	"github.com/san-kum/fieldsim/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). The canvas size in sub-pixels is
// (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// PutRune places a literal character cell, overriding any braille dots
// there. Used for charge glyphs.
func (c *Canvas) PutRune(col, row int, r rune) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] = r
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a sub-pixel line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto the canvas sub-pixel grid with a
// flipped y axis.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
	canvas     *Canvas
}

func NewViewport(c *Canvas, xmin, xmax, ymin, ymax float64) *Viewport {
	return &Viewport{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax, canvas: c}
}

func (v *Viewport) project(p field.Vec) (int, int) {
	w := float64(v.canvas.Width * 2)
	h := float64(v.canvas.Height * 4)
	px := int(w * (p.X - v.XMin) / (v.XMax - v.XMin))
	py := int(h * (v.YMax - p.Y) / (v.YMax - v.YMin))
	return px, py
}

// Cell returns the character cell containing the world point.
func (v *Viewport) Cell(p field.Vec) (col, row int) {
	px, py := v.project(p)
	return px / 2, py / 4
}

// DrawPolyline draws a connected world-space path.
func (v *Viewport) DrawPolyline(points []field.Vec) {
	for i := 1; i < len(points); i++ {
		x0, y0 := v.project(points[i-1])
		x1, y1 := v.project(points[i])
		v.canvas.DrawLine(x0, y0, x1, y1)
	}
}

// DrawMarker lights a small dot cluster at a world point.
func (v *Viewport) DrawMarker(p field.Vec) {
	px, py := v.project(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			v.canvas.Set(px+dx, py+dy)
		}
	}
}
