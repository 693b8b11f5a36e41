package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type input struct {
	step  int
	move  *Point
	leave bool
}

func replay(t *testing.T, seed int64, dts []float64, inputs []input) []Snapshot {
	t.Helper()
	cfg := testConfig()
	cfg.Seed = seed

	rec := &recorder{}
	l, err := New(cfg, WithScheduler(&manualScheduler{}), WithRenderer(rec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Dispose()
	if err := l.Start(640, 480); err != nil {
		t.Fatalf("Start: %v", err)
	}

	next := 0
	for i, dt := range dts {
		for next < len(inputs) && inputs[next].step == i {
			in := inputs[next]
			switch {
			case in.leave:
				l.PointerLeave()
			case in.move != nil:
				l.PointerMove(in.move.X, in.move.Y)
			}
			next++
		}
		if _, err := l.Step(dt); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	return rec.All()
}

func TestDeterministicReplay(t *testing.T) {
	dts := make([]float64, 120)
	for i := range dts {
		dts[i] = 1.0 / 60
		if i%7 == 0 {
			dts[i] = 1.0 / 30
		}
	}
	inputs := []input{
		{step: 10, move: &Point{X: 100, Y: 80}},
		{step: 40, move: &Point{X: 500, Y: 400}},
		{step: 80, leave: true},
	}

	a := replay(t, 1234, dts, inputs)
	b := replay(t, 1234, dts, inputs)

	if len(a) != len(dts) {
		t.Fatalf("expected %d snapshots, got %d", len(dts), len(a))
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed and inputs diverged (-a +b):\n%s", diff)
	}

	c := replay(t, 4321, dts, inputs)
	if cmp.Equal(a[len(a)-1].Bodies, c[len(c)-1].Bodies, cmpopts.EquateApprox(0, 1e-9)) {
		t.Error("expected different seeds to produce different outcomes")
	}
}
