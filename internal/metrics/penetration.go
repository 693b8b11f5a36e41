package metrics

import (
	"math"

	"github.com/san-kum/ballpit/internal/sim"
)

// Penetration tracks the deepest overlap between any two bodies, as a fraction
// of the smaller radius, over all observed snapshots.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(s sim.Snapshot) {
	bodies := s.Bodies
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			overlap := a.Radius + b.Radius - b.Position.Sub(a.Position).Len()
			if overlap <= 0 {
				continue
			}
			frac := overlap / math.Min(a.Radius, b.Radius)
			p.max = math.Max(p.max, frac)
		}
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }
