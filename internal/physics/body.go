package physics

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Body is a simulated sphere. Radius and Color are fixed at creation.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64
	Mass     float64
	Color    colorful.Color
}

// Bodies is the index-stable arena the passes iterate over.
type Bodies []Body

// MassFromRadius is volume-proportional; the 4/3·π factor cancels in every ratio we use.
func MassFromRadius(r float64) float64 {
	return r * r * r
}

type SpawnParams struct {
	Count   int
	MinSize float64
	MaxSize float64
	Palette []colorful.Color
}

// Spawn creates Count bodies at rest, uniformly placed inside vol (inset by radius).
// Draw order per body is radius, color, position so a seed fully determines the set.
func Spawn(rng *rand.Rand, p SpawnParams, vol Volume) Bodies {
	bodies := make(Bodies, p.Count)
	for i := range bodies {
		r := p.MinSize + rng.Float64()*(p.MaxSize-p.MinSize)
		col := p.Palette[rng.Intn(len(p.Palette))]

		var pos mgl64.Vec3
		for a := 0; a < 3; a++ {
			lo, hi := vol.Min[a]+r, vol.Max[a]-r
			if lo > hi {
				lo, hi = vol.Center()[a], vol.Center()[a]
			}
			pos[a] = lo + rng.Float64()*(hi-lo)
		}

		bodies[i] = Body{
			Position: pos,
			Radius:   r,
			Mass:     MassFromRadius(r),
			Color:    col,
		}
	}
	return bodies
}

// KineticEnergy sums ½·m·|v|² over the arena.
func (b Bodies) KineticEnergy() float64 {
	ke := 0.0
	for i := range b {
		v := b[i].Velocity
		ke += 0.5 * b[i].Mass * v.Dot(v)
	}
	return ke
}

// Momentum sums m·v over the arena.
func (b Bodies) Momentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for i := range b {
		p = p.Add(b[i].Velocity.Mul(b[i].Mass))
	}
	return p
}
