package storage

import (
	"sync"

	"github.com/san-kum/ballpit/internal/sim"
)

// Recorder keeps every Nth snapshot for saving. It is attached to a Loop as a
// renderer.
type Recorder struct {
	mu    sync.Mutex
	every uint64
	snaps []sim.Snapshot
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: uint64(every)}
}

func (r *Recorder) Present(s sim.Snapshot) {
	if s.Step%r.every != 0 {
		return
	}
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *Recorder) Snapshots() []sim.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sim.Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}
