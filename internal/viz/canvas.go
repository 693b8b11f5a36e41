package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
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

const blank = 0x2800

// Canvas is a braille dot grid with one color per cell. Sub-pixel size is
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color
	painted       [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Colors:  make([][]colorful.Color, h),
		painted: make([][]bool, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
		c.painted[i] = make([]bool, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set lights a sub-pixel without touching the cell color.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Paint lights a sub-pixel and makes col the cell color. Later paints win, so
// callers draw back to front.
func (c *Canvas) Paint(x, y int, col colorful.Color) {
	row, cl, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cl] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cl] = col
	c.painted[row][cl] = true
}

func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

// At reports whether the sub-pixel is lit and, if so, its cell color as hex.
// Dots lit with Set have no color and report white.
func (c *Canvas) At(x, y int) (string, bool) {
	row, col, ok := c.cell(x, y)
	if !ok || c.Grid[row][col]&rune(pixelMap[y%4][x%2]) == 0 {
		return "", false
	}
	if !c.painted[row][col] {
		return "#ffffff", true
	}
	return c.Colors[row][col].Clamped().Hex(), true
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.painted[i][j] = false
		}
	}
}

// FillDisc paints every sub-pixel whose centre lies within r of (cx, cy). A
// disc smaller than one dot still lights the dot under its centre.
func (c *Canvas) FillDisc(cx, cy, r float64, col colorful.Color) {
	x0, x1 := int(cx-r), int(cx+r)
	y0, y1 := int(cy-r), int(cy+r)
	r2 := r * r
	hit := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				c.Paint(x, y, col)
				hit = true
			}
		}
	}
	if !hit && cx >= 0 && cy >= 0 {
		c.Paint(int(cx), int(cy), col)
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// String renders the dots without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the dots, coloring runs of painted cells that share a color.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		j := 0
		for j < len(row) {
			if !c.painted[i][j] {
				b.WriteRune(row[j])
				j++
				continue
			}
			col := c.Colors[i][j]
			k := j
			for k < len(row) && c.painted[i][k] && c.Colors[i][k] == col {
				k++
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(col.Clamped().Hex()))
			b.WriteString(style.Render(string(row[j:k])))
			j = k
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
