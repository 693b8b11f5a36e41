package metrics

import (
	"sort"
	"sync"

	"github.com/san-kum/ballpit/internal/sim"
)

// Metric folds a stream of snapshots into one number.
type Metric interface {
	Name() string
	Observe(s sim.Snapshot)
	Value() float64
	Reset()
}

// Set fans snapshots out to several metrics. It is a sim.Renderer, so it can be
// attached to a Loop and read from another goroutine.
type Set struct {
	mu      sync.Mutex
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Standard is the metric set recorded with every run.
func Standard() *Set {
	return NewSet(NewKineticEnergy(), NewPenetration(), NewContainment(1e-9))
}

func (s *Set) Present(snap sim.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Observe(snap)
	}
}

func (s *Set) Values() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Reset()
	}
}
