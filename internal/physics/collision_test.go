package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

var bigBox = BoxVolume(100, 100, 100)

func TestCollider_SeparatesPair(t *testing.T) {
	c := Collider{Restitution: 0.5, Iterations: 1}
	bodies := Bodies{
		ball(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 1),
		ball(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{-1, 0, 0}, 1),
	}

	if n := c.Resolve(bodies, bigBox); n != 1 {
		t.Fatalf("expected 1 contact, got %d", n)
	}

	d := bodies[1].Position.Sub(bodies[0].Position).Len()
	if d < 2-tol {
		t.Errorf("expected separation >= 2, got %f", d)
	}
	if bodies[1].Velocity[0]-bodies[0].Velocity[0] < 0 {
		t.Errorf("bodies still approaching: %v %v", bodies[0].Velocity, bodies[1].Velocity)
	}
}

func TestCollider_MomentumConserved(t *testing.T) {
	c := Collider{Restitution: 0.8, Iterations: 1}
	bodies := Bodies{
		ball(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0.5, 0}, 1),
		ball(mgl64.Vec3{1.2, 0.3, 0.1}, mgl64.Vec3{-1, 0, 0.2}, 0.6),
	}
	before := bodies.Momentum()

	c.Resolve(bodies, bigBox)

	if !vec3AlmostEqual(bodies.Momentum(), before, 1e-9) {
		t.Errorf("momentum changed: %v -> %v", before, bodies.Momentum())
	}
}

func TestCollider_ElasticEqualMassSwap(t *testing.T) {
	c := Collider{Restitution: 1, Iterations: 1}
	bodies := Bodies{
		ball(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 1),
		ball(mgl64.Vec3{1.9, 0, 0}, mgl64.Vec3{0, 0, 0}, 1),
	}

	c.Resolve(bodies, bigBox)

	if !almostEqual(bodies[0].Velocity[0], 0, 1e-12) || !almostEqual(bodies[1].Velocity[0], 1, 1e-12) {
		t.Errorf("expected velocity swap, got %v %v", bodies[0].Velocity, bodies[1].Velocity)
	}
}

func TestCollider_HeavierBodyMovesLess(t *testing.T) {
	c := Collider{Iterations: 1}
	bodies := Bodies{
		ball(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, 2),
		ball(mgl64.Vec3{2.5, 0, 0}, mgl64.Vec3{}, 1),
	}

	c.Resolve(bodies, bigBox)

	moveA := math.Abs(bodies[0].Position[0])
	moveB := math.Abs(bodies[1].Position[0] - 2.5)
	if moveA >= moveB {
		t.Errorf("expected heavy body to move less: %f vs %f", moveA, moveB)
	}
	if !almostEqual(moveA+moveB, 0.5, 1e-12) {
		t.Errorf("expected total correction 0.5, got %f", moveA+moveB)
	}
}

func TestCollider_CoincidentCentres(t *testing.T) {
	c := Collider{Restitution: 0.9, Iterations: 1}
	bodies := Bodies{
		ball(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 0.5),
		ball(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, 0.5),
	}

	c.Resolve(bodies, bigBox)

	for i, b := range bodies {
		for a := 0; a < 3; a++ {
			if math.IsNaN(b.Position[a]) || math.IsNaN(b.Velocity[a]) {
				t.Fatalf("body %d has NaN: %v %v", i, b.Position, b.Velocity)
			}
		}
	}
	d := bodies[1].Position.Sub(bodies[0].Position).Len()
	if !almostEqual(d, 1, 1e-12) {
		t.Errorf("expected separation 1, got %f", d)
	}
	// (0+1)%3 picks the y axis
	if bodies[1].Position[1] <= bodies[0].Position[1] {
		t.Errorf("expected separation along y, got %v %v", bodies[0].Position, bodies[1].Position)
	}
}

func TestCollider_NoPersistentInterpenetration(t *testing.T) {
	vol := BoxVolume(20, 20, 20)
	c := Collider{Restitution: 0.5, Iterations: 8}
	rng := rand.New(rand.NewSource(3))

	bodies := make(Bodies, 30)
	for i := range bodies {
		pos := mgl64.Vec3{rng.Float64()*8 - 4, rng.Float64()*8 - 4, rng.Float64()*8 - 4}
		bodies[i] = ball(pos, mgl64.Vec3{}, 0.4+rng.Float64()*0.4)
	}

	for step := 0; step < 20; step++ {
		c.Resolve(bodies, vol)
	}

	if p := bodies.MaxPenetration(); p > 1e-6 {
		t.Errorf("expected no residual overlap, got %g", p)
	}
}

func TestCollider_ClampsIntoVolume(t *testing.T) {
	vol := BoxVolume(2, 2, 2)
	c := Collider{Iterations: 1}
	bodies := Bodies{
		ball(mgl64.Vec3{1.4, 0, 0}, mgl64.Vec3{}, 0.5),
		ball(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{}, 0.5),
	}

	c.Resolve(bodies, vol)

	for i, b := range bodies {
		if !vol.Contains(b.Position, tol) || b.Position[0] > 1.5+tol {
			t.Errorf("body %d pushed out of volume: %v", i, b.Position)
		}
	}
}

func TestCollider_Deterministic(t *testing.T) {
	mk := func() Bodies {
		rng := rand.New(rand.NewSource(11))
		return Spawn(rng, SpawnParams{
			Count: 40, MinSize: 0.3, MaxSize: 0.9,
			Palette: []colorful.Color{{R: 1}, {G: 1}},
		}, BoxVolume(2, 2, 2))
	}
	a, b := mk(), mk()
	c := Collider{Restitution: 0.7, Iterations: 3}

	c.Resolve(a, BoxVolume(2, 2, 2))
	c.Resolve(b, BoxVolume(2, 2, 2))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("body %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func BenchmarkCollider_200(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	vol := BoxVolume(5, 3, 2)
	bodies := Spawn(rng, SpawnParams{Count: 200, MinSize: 0.3, MaxSize: 0.6, Palette: []colorful.Color{{R: 1}}}, vol)
	c := Collider{Restitution: 0.9, Iterations: 2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Resolve(bodies, vol)
	}
}
