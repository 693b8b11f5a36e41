package sim

import (
	"testing"
	"time"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViewport(t *testing.T) Viewport {
	t.Helper()
	vp, err := NewViewport(800, 600, config.CameraConfig{FOV: 15, Distance: 20}, 2)
	require.NoError(t, err)
	return vp
}

func TestViewport_ToSim(t *testing.T) {
	vp := testViewport(t)

	tl := vp.ToSim(0, 0)
	assert.InDelta(t, vp.Volume.Min[0], tl[0], 1e-12)
	assert.InDelta(t, vp.Volume.Max[1], tl[1], 1e-12)
	assert.Zero(t, tl[2])

	c := vp.ToSim(400, 300)
	assert.InDelta(t, 0, c[0], 1e-12)
	assert.InDelta(t, 0, c[1], 1e-12)

	br := vp.ToSim(800, 600)
	assert.InDelta(t, vp.Volume.Max[0], br[0], 1e-12)
	assert.InDelta(t, vp.Volume.Min[1], br[1], 1e-12)
}

func TestCursorTracker_LatestWins(t *testing.T) {
	c := NewCursorTracker(true)
	assert.False(t, c.Target().Active)

	// no viewport yet
	c.Move(10, 10)
	assert.False(t, c.Target().Active)

	vp := testViewport(t)
	c.SetViewport(vp)
	c.Move(10, 10)
	c.Move(400, 300)

	tgt := c.Target()
	require.True(t, tgt.Active)
	assert.InDelta(t, 0, tgt.Position[0], 1e-12)

	c.Leave()
	assert.False(t, c.Target().Active)
}

func TestCursorTracker_TouchUsesLastPoint(t *testing.T) {
	c := NewCursorTracker(true)
	vp := testViewport(t)
	c.SetViewport(vp)

	c.Touch([]Point{{X: 0, Y: 0}, {X: 800, Y: 600}})
	tgt := c.Target()
	require.True(t, tgt.Active)
	assert.InDelta(t, vp.Volume.Max[0], tgt.Position[0], 1e-12)

	c.Touch(nil)
	assert.False(t, c.Target().Active)
}

func TestCursorTracker_FollowDisabled(t *testing.T) {
	c := NewCursorTracker(false)
	c.SetViewport(testViewport(t))
	c.Move(100, 100)
	c.Touch([]Point{{X: 1, Y: 1}})
	assert.False(t, c.Target().Active)
}

func TestVisibilityGate(t *testing.T) {
	changes := 0
	g := NewVisibilityGate()
	g.onChange = func() { changes++ }

	assert.True(t, g.ShouldRun(), "visible before any report")

	g.Observe(true)
	assert.Equal(t, 0, changes)

	g.Observe(false)
	assert.False(t, g.ShouldRun())
	assert.Equal(t, 1, changes)

	g.Observe(false)
	assert.Equal(t, 1, changes)

	g.Unavailable()
	assert.True(t, g.ShouldRun())

	g.Observe(true)
	assert.True(t, g.ShouldRun())
}

func TestTimerScheduler(t *testing.T) {
	s := NewTimerScheduler(1000)
	select {
	case <-s.Request():
	case <-time.After(time.Second):
		t.Fatal("frame never delivered")
	}

	ch := s.Request()
	s.Cancel()
	select {
	case <-ch:
		t.Error("cancelled frame fired")
	case <-time.After(20 * time.Millisecond):
	}

	if s.Request() != nil {
		t.Error("expected no frame after cancel")
	}
}
