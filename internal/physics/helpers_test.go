package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

const tol = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vec3AlmostEqual(a, b mgl64.Vec3, eps float64) bool {
	return almostEqual(a[0], b[0], eps) && almostEqual(a[1], b[1], eps) && almostEqual(a[2], b[2], eps)
}

func ball(pos, vel mgl64.Vec3, r float64) Body {
	return Body{Position: pos, Velocity: vel, Radius: r, Mass: MassFromRadius(r), Color: colorful.Color{R: 1}}
}
