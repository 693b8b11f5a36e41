package sim

import (
	"sync"
	"time"

	"github.com/san-kum/ballpit/internal/config"
)

var epoch = time.Unix(1_700_000_000, 0)

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) Present(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) Last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return Snapshot{}
	}
	return r.snaps[len(r.snaps)-1]
}

func (r *recorder) All() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}

// manualScheduler fires frames only when the test says so.
type manualScheduler struct {
	mu       sync.Mutex
	pending  chan time.Time
	requests int
	cancels  int
}

func (m *manualScheduler) Request() <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	if m.cancels > 0 {
		m.pending = nil
		return nil
	}
	m.pending = make(chan time.Time, 1)
	return m.pending
}

func (m *manualScheduler) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
	m.pending = nil
}

func (m *manualScheduler) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

func (m *manualScheduler) Fire(t time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return false
	}
	m.pending <- t
	m.pending = nil
	return true
}

func (m *manualScheduler) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Count = 12
	cfg.Seed = 7
	cfg.MaxDt = 0.05
	return cfg
}
