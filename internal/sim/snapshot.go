package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballpit/internal/physics"
)

// BodyView is the renderable part of one body.
type BodyView struct {
	Position mgl64.Vec3
	Radius   float64
	Color    colorful.Color
}

// Snapshot is a per-step copy of every body, ordered by body index. It is
// shared by all renderers and must be treated as read-only.
type Snapshot struct {
	Step   uint64
	Time   float64
	Volume physics.Volume
	Bodies []BodyView
}

// Renderer consumes snapshots. Present runs on the stepping goroutine with the
// loop locked, so it must return quickly and must not call back into the Loop.
type Renderer interface {
	Present(s Snapshot)
}

type RendererFunc func(s Snapshot)

func (f RendererFunc) Present(s Snapshot) { f(s) }

func takeSnapshot(step uint64, t float64, vol physics.Volume, bodies physics.Bodies) Snapshot {
	views := make([]BodyView, len(bodies))
	for i := range bodies {
		views[i] = BodyView{
			Position: bodies[i].Position,
			Radius:   bodies[i].Radius,
			Color:    bodies[i].Color,
		}
	}
	return Snapshot{Step: step, Time: t, Volume: vol, Bodies: views}
}
