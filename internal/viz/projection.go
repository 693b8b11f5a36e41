package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

// Projector maps simulation space onto canvas sub-pixels through the same
// perspective camera the volume was sized with. At z=0 it is the exact inverse
// of sim.Viewport.ToSim for a surface of SubWidth x SubHeight pixels.
type Projector struct {
	Volume   physics.Volume
	Width    float64
	Height   float64
	Distance float64
}

// Project returns the sub-pixel centre of p and the perspective scale at its depth.
func (pr Projector) Project(p mgl64.Vec3) (x, y, scale float64) {
	scale = 1.0
	if d := pr.Distance - p[2]; d > 1e-6 && pr.Distance > 0 {
		scale = pr.Distance / d
	}
	c := pr.Volume.Center()
	size := pr.Volume.Size()
	if size[0] <= 0 || size[1] <= 0 {
		return 0, 0, scale
	}

	px := c[0] + (p[0]-c[0])*scale
	py := c[1] + (p[1]-c[1])*scale
	x = (px - pr.Volume.Min[0]) / size[0] * pr.Width
	y = (pr.Volume.Max[1] - py) / size[1] * pr.Height
	return x, y, scale
}

// Radius converts a world radius at the given perspective scale to sub-pixels.
func (pr Projector) Radius(r, scale float64) float64 {
	size := pr.Volume.Size()
	if size[0] <= 0 {
		return 0
	}
	return r * scale / size[0] * pr.Width
}

// DrawSnapshot paints every body back to front, shaded by depth.
func DrawSnapshot(c *Canvas, s sim.Snapshot, distance float64, sh Shader) {
	c.Clear()
	if len(s.Bodies) == 0 {
		return
	}
	pr := Projector{
		Volume:   s.Volume,
		Width:    float64(c.SubWidth()),
		Height:   float64(c.SubHeight()),
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
		c.FillDisc(x, y, pr.Radius(b.Radius, scale), sh.Shade(b.Color, b.Position[2], s.Volume))
	}
}
