package sim

import "sync/atomic"

// VisibilityGate is the run/pause signal tied to on-screen presence. Until the
// host reports anything, and after Unavailable, the gate reads as visible.
type VisibilityGate struct {
	visible   atomic.Bool
	available atomic.Bool
	onChange  func()
}

func NewVisibilityGate() *VisibilityGate {
	g := &VisibilityGate{}
	g.visible.Store(true)
	return g
}

// Observe records the latest intersection result from the host.
func (g *VisibilityGate) Observe(visible bool) {
	g.available.Store(true)
	prev := g.visible.Swap(visible)
	if prev != visible {
		g.changed()
	}
}

// Unavailable is called when the host has no visibility signal.
func (g *VisibilityGate) Unavailable() {
	g.available.Store(false)
	g.changed()
}

func (g *VisibilityGate) ShouldRun() bool {
	if !g.available.Load() {
		return true
	}
	return g.visible.Load()
}

func (g *VisibilityGate) changed() {
	if g.onChange != nil {
		g.onChange()
	}
}
