package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ReferenceRate is the frame rate at which the configured friction is the
// per-frame velocity retention.
const ReferenceRate = 60.0

// Target is the cursor attraction point for one step.
type Target struct {
	Position mgl64.Vec3
	Active   bool
}

// NoTarget disables attraction for a step.
var NoTarget = Target{}

// Integrator advances velocities then positions (semi-implicit Euler).
type Integrator struct {
	Gravity  float64
	Friction float64

	// Attraction is the steering gain toward the target; AttractionRange is the
	// distance beyond which the pull stops growing.
	Attraction      float64
	AttractionRange float64

	// MaxSpeed clamps |v| after friction; zero disables the clamp.
	MaxSpeed float64
}

// FrictionFactor maps a [0,1] friction setting to the multiplicative decay for dt.
// 1 keeps velocity, 0 stops it; the factor is monotonic in friction.
func FrictionFactor(friction, dt float64) float64 {
	if friction >= 1 {
		return 1
	}
	if friction <= 0 {
		if dt > 0 {
			return 0
		}
		return 1
	}
	return math.Pow(friction, dt*ReferenceRate)
}

// Attraction returns the bounded steering acceleration from pos toward target.
// It grows linearly with distance up to rng, then keeps that magnitude.
func Attraction(pos, target mgl64.Vec3, strength, rng float64) mgl64.Vec3 {
	d := target.Sub(pos)
	dist := d.Len()
	if dist > rng && dist > 0 {
		d = d.Mul(rng / dist)
	}
	return d.Mul(strength)
}

// Step mutates bodies in place for one step of length dt.
func (in *Integrator) Step(bodies Bodies, target Target, dt float64) {
	decay := FrictionFactor(in.Friction, dt)
	steer := target.Active && in.Attraction > 0
	maxSpeed2 := in.MaxSpeed * in.MaxSpeed

	for i := range bodies {
		b := &bodies[i]

		b.Velocity[1] -= in.Gravity * dt

		if steer {
			a := Attraction(b.Position, target.Position, in.Attraction, in.AttractionRange)
			b.Velocity = b.Velocity.Add(a.Mul(dt))
		}

		if decay != 1 {
			b.Velocity = b.Velocity.Mul(decay)
		}

		if in.MaxSpeed > 0 {
			if s2 := b.Velocity.Dot(b.Velocity); s2 > maxSpeed2 {
				b.Velocity = b.Velocity.Mul(in.MaxSpeed / math.Sqrt(s2))
			}
		}

		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}
}
