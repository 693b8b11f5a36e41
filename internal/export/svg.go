package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/ballpit/internal/sim"
	"github.com/san-kum/ballpit/internal/viz"
)

const background = "#0a0a0a"

// SnapshotToSVG draws every body as a shaded circle, back to front, on a
// width×height image using the same projection as the terminal view.
func SnapshotToSVG(s sim.Snapshot, width, height int, distance float64, sh viz.Shader) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	pr := viz.Projector{
		Volume:   s.Volume,
		Width:    float64(width),
		Height:   float64(height),
		Distance: distance,
	}

	order := make([]int, len(s.Bodies))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.Bodies[order[a]].Position[2] < s.Bodies[order[b]].Position[2]
	})

	for _, i := range order {
		b := s.Bodies[i]
		x, y, scale := pr.Project(b.Position)
		fill := sh.Shade(b.Color, b.Position[2], s.Volume).Hex()
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, pr.Radius(b.Radius, scale), fill)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in the
// cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			col, ok := canvas.At(x, y)
			if !ok {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, col)
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
