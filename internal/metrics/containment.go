package metrics

import "github.com/san-kum/ballpit/internal/sim"

// Containment is the fraction of snapshots in which every body centre lies
// inside the volume.
type Containment struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(s sim.Snapshot) {
	c.samples++
	for _, b := range s.Bodies {
		if !s.Volume.Contains(b.Position, c.tolerance) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
