package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

// KineticEnergy estimates total kinetic energy from consecutive snapshots.
// Snapshots carry no velocity, so v is the finite difference of positions.
type KineticEnergy struct {
	name    string
	prev    []mgl64.Vec3
	prevT   float64
	last    float64
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s sim.Snapshot) {
	defer k.remember(s)

	dt := s.Time - k.prevT
	if k.prev == nil || len(k.prev) != len(s.Bodies) || dt <= 0 {
		return
	}

	e := 0.0
	for i, b := range s.Bodies {
		v := b.Position.Sub(k.prev[i]).Mul(1 / dt)
		e += 0.5 * physics.MassFromRadius(b.Radius) * v.Dot(v)
	}
	k.last = e
	k.total += e
	k.samples++
}

func (k *KineticEnergy) remember(s sim.Snapshot) {
	if cap(k.prev) < len(s.Bodies) {
		k.prev = make([]mgl64.Vec3, len(s.Bodies))
	}
	k.prev = k.prev[:len(s.Bodies)]
	for i, b := range s.Bodies {
		k.prev[i] = b.Position
	}
	k.prevT = s.Time
}

// Value is the mean over all observed steps.
func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

// Last is the estimate for the most recent step.
func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.prev = nil
	k.prevT = 0
	k.last = 0
	k.total = 0
	k.samples = 0
}
