package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Volume is the axis-aligned box that contains every body centre.
type Volume struct {
	Min, Max mgl64.Vec3
}

// BoxVolume is centred on the origin with the given half extents.
func BoxVolume(halfX, halfY, halfZ float64) Volume {
	return Volume{
		Min: mgl64.Vec3{-halfX, -halfY, -halfZ},
		Max: mgl64.Vec3{halfX, halfY, halfZ},
	}
}

// ViewportVolume sizes the box to what a perspective camera at distance sees
// on the z=0 plane for a surface of width×height pixels.
func ViewportVolume(width, height, fovDeg, distance, depth float64) Volume {
	visibleH := 2 * math.Tan(mgl64.DegToRad(fovDeg)/2) * distance
	visibleW := visibleH * width / height
	return BoxVolume(visibleW/2, visibleH/2, depth)
}

func (v Volume) Center() mgl64.Vec3 {
	return v.Min.Add(v.Max).Mul(0.5)
}

func (v Volume) Size() mgl64.Vec3 {
	return v.Max.Sub(v.Min)
}

// Contains reports whether p is inside the box, allowing tol on every face.
func (v Volume) Contains(p mgl64.Vec3, tol float64) bool {
	for a := 0; a < 3; a++ {
		if p[a] < v.Min[a]-tol || p[a] > v.Max[a]+tol {
			return false
		}
	}
	return true
}

// limits returns the allowed centre range on axis a for a sphere of radius r.
// A sphere wider than the box is pinned to the mid-plane.
func (v Volume) limits(a int, r float64) (lo, hi float64) {
	lo, hi = v.Min[a]+r, v.Max[a]-r
	if lo > hi {
		mid := (v.Min[a] + v.Max[a]) / 2
		return mid, mid
	}
	return lo, hi
}

// Resolve clamps every body inside the box and reflects the outward normal
// velocity scaled by bounce. Faces are handled x, then y, then z.
func (v Volume) Resolve(bodies Bodies, bounce float64) int {
	hits := 0
	for i := range bodies {
		b := &bodies[i]
		for a := 0; a < 3; a++ {
			lo, hi := v.limits(a, b.Radius)
			switch {
			case b.Position[a] < lo:
				b.Position[a] = lo
				if b.Velocity[a] < 0 {
					b.Velocity[a] = -b.Velocity[a] * bounce
				}
				hits++
			case b.Position[a] > hi:
				b.Position[a] = hi
				if b.Velocity[a] > 0 {
					b.Velocity[a] = -b.Velocity[a] * bounce
				}
				hits++
			}
		}
	}
	return hits
}

// Clamp moves p inside the allowed range for radius r without touching velocity.
func (v Volume) Clamp(p mgl64.Vec3, r float64) mgl64.Vec3 {
	for a := 0; a < 3; a++ {
		lo, hi := v.limits(a, r)
		p[a] = mgl64.Clamp(p[a], lo, hi)
	}
	return p
}
