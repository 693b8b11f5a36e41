package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// separationEpsilon is the centre distance below which the contact normal is
// taken from fallbackAxes instead of the (undefined) direction between centres.
const separationEpsilon = 1e-9

var fallbackAxes = [3]mgl64.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Collider resolves overlapping pairs with mass-weighted impulses.
type Collider struct {
	// Restitution scales the normal relative velocity after contact (1 elastic, 0 inelastic).
	Restitution float64
	// Iterations repeats the all-pairs pass to relax stacked contacts.
	Iterations int
}

// Resolve processes pairs (i, j), i < j, in increasing order and returns the number
// of contacts handled. Corrected positions are clamped back into vol.
func (c *Collider) Resolve(bodies Bodies, vol Volume) int {
	iters := c.Iterations
	if iters < 1 {
		iters = 1
	}
	contacts := 0
	for it := 0; it < iters; it++ {
		n := 0
		for i := 0; i < len(bodies); i++ {
			for j := i + 1; j < len(bodies); j++ {
				if c.resolvePair(bodies, i, j, vol) {
					n++
				}
			}
		}
		contacts += n
		if n == 0 {
			break
		}
	}
	return contacts
}

func (c *Collider) resolvePair(bodies Bodies, i, j int, vol Volume) bool {
	a, b := &bodies[i], &bodies[j]

	d := b.Position.Sub(a.Position)
	sumR := a.Radius + b.Radius
	dist2 := d.Dot(d)
	if dist2 >= sumR*sumR {
		return false
	}

	dist := math.Sqrt(dist2)
	var normal mgl64.Vec3
	if dist < separationEpsilon {
		normal = fallbackAxes[(i+j)%3]
	} else {
		normal = d.Mul(1 / dist)
	}

	wa, wb := 1/a.Mass, 1/b.Mass
	wsum := wa + wb

	overlap := sumR - dist
	a.Position = vol.Clamp(a.Position.Sub(normal.Mul(overlap*wa/wsum)), a.Radius)
	b.Position = vol.Clamp(b.Position.Add(normal.Mul(overlap*wb/wsum)), b.Radius)

	vn := b.Velocity.Sub(a.Velocity).Dot(normal)
	if vn < 0 {
		jn := -(1 + c.Restitution) * vn / wsum
		a.Velocity = a.Velocity.Sub(normal.Mul(jn * wa))
		b.Velocity = b.Velocity.Add(normal.Mul(jn * wb))
	}
	return true
}

// MaxPenetration is the deepest pairwise overlap in the arena, zero when none.
func (b Bodies) MaxPenetration() float64 {
	worst := 0.0
	for i := 0; i < len(b); i++ {
		for j := i + 1; j < len(b); j++ {
			d := b[j].Position.Sub(b[i].Position).Len()
			if o := b[i].Radius + b[j].Radius - d; o > worst {
				worst = o
			}
		}
	}
	return worst
}
