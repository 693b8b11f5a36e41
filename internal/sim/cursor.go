package sim

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/dynamo"
	"github.com/san-kum/ballpit/internal/physics"
)

// Viewport is the host surface in pixels plus the simulation box it shows.
type Viewport struct {
	Width, Height float64
	Volume        physics.Volume
}

// NewViewport derives the bounding volume for a surface of width×height pixels.
func NewViewport(width, height float64, cam config.CameraConfig, depth float64) (Viewport, error) {
	if !(width > 0) || !(height > 0) {
		return Viewport{}, dynamo.ErrInvalidViewport
	}
	return Viewport{
		Width:  width,
		Height: height,
		Volume: physics.ViewportVolume(width, height, cam.FOV, cam.Distance, depth),
	}, nil
}

// ToSim maps a surface pixel onto the z=0 plane. Pixel y grows downward.
func (v Viewport) ToSim(px, py float64) mgl64.Vec3 {
	size := v.Volume.Size()
	return mgl64.Vec3{
		v.Volume.Min[0] + px/v.Width*size[0],
		v.Volume.Max[1] - py/v.Height*size[1],
		0,
	}
}

// Point is a pointer or touch position in surface pixels.
type Point struct {
	X, Y float64
}

// CursorTracker holds the single latest attraction target. Writers are host
// input handlers; the reader is the stepping task.
type CursorTracker struct {
	follow   bool
	viewport atomic.Pointer[Viewport]
	target   atomic.Pointer[physics.Target]
}

func NewCursorTracker(follow bool) *CursorTracker {
	c := &CursorTracker{follow: follow}
	c.target.Store(&physics.NoTarget)
	return c
}

func (c *CursorTracker) SetViewport(vp Viewport) {
	c.viewport.Store(&vp)
}

// Move records a pointer position. Ignored until a viewport is known.
func (c *CursorTracker) Move(px, py float64) {
	if !c.follow {
		return
	}
	vp := c.viewport.Load()
	if vp == nil {
		return
	}
	c.target.Store(&physics.Target{Position: vp.ToSim(px, py), Active: true})
}

// Touch collapses simultaneous contacts to the most recent one, the last in
// points. An empty set means every finger lifted.
func (c *CursorTracker) Touch(points []Point) {
	if len(points) == 0 {
		c.Leave()
		return
	}
	p := points[len(points)-1]
	c.Move(p.X, p.Y)
}

// Leave clears the target until new input arrives.
func (c *CursorTracker) Leave() {
	c.target.Store(&physics.NoTarget)
}

func (c *CursorTracker) Target() physics.Target {
	return *c.target.Load()
}
