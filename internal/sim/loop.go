package sim

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/dynamo"
	"github.com/san-kum/ballpit/internal/physics"
	"go.uber.org/zap"
)

type State int

const (
	Uninitialized State = iota
	Running
	Paused
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

type Option func(*Loop)

func WithLogger(l *zap.Logger) Option {
	return func(lp *Loop) { lp.logger = l }
}

func WithScheduler(s Scheduler) Option {
	return func(lp *Loop) { lp.sched = s }
}

func WithClock(now func() time.Time) Option {
	return func(lp *Loop) { lp.now = now }
}

func WithRenderer(r Renderer) Option {
	return func(lp *Loop) { lp.renderers = append(lp.renderers, r) }
}

// Loop owns one simulation instance: its bodies, volume and stepping schedule.
// Host input may arrive on any goroutine; physics state is only touched with mu held.
type Loop struct {
	mu        sync.Mutex
	cfg       *config.Config
	logger    *zap.Logger
	sched     Scheduler
	now       func() time.Time
	renderers []Renderer
	rng       *rand.Rand
	palette   []colorful.Color

	state    State
	bodies   physics.Bodies
	vol      physics.Volume
	integ    physics.Integrator
	collider physics.Collider

	steps    uint64
	simTime  float64
	lastStep time.Time
	acc      float64

	cursor   *CursorTracker
	gate     *VisibilityGate
	resized  atomic.Pointer[Viewport]
	held     atomic.Bool
	wake     chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
}

// New validates cfg and prepares an unstarted instance. cfg is copied; later
// edits by the caller have no effect.
func New(cfg *config.Config, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	l := &Loop{
		cfg:     cfg,
		logger:  zap.NewNop(),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(seed)),
		palette: palette,
		integ: physics.Integrator{
			Gravity:         cfg.Gravity,
			Friction:        cfg.Friction,
			Attraction:      cfg.Attraction,
			AttractionRange: cfg.AttractionRange,
			MaxSpeed:        cfg.MaxSpeed,
		},
		collider: physics.Collider{
			Restitution: cfg.WallBounce,
			Iterations:  cfg.Iterations,
		},
		cursor: NewCursorTracker(cfg.FollowCursor),
		gate:   NewVisibilityGate(),
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.sched == nil {
		l.sched = NewTimerScheduler(cfg.FPS)
	}
	l.gate.onChange = l.signal
	l.logger = l.logger.With(zap.Int64("seed", seed))
	return l, nil
}

// Start mounts the simulation on a width×height pixel surface: bodies are
// created and the loop enters Running.
func (l *Loop) Start(width, height float64) error {
	vp, err := NewViewport(width, height, l.cfg.Camera, l.cfg.Depth)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case Disposed:
		return dynamo.ErrDisposed
	case Running, Paused:
		return dynamo.ErrAlreadyStarted
	}

	l.vol = vp.Volume
	l.cursor.SetViewport(vp)
	l.bodies = physics.Spawn(l.rng, physics.SpawnParams{
		Count:   l.cfg.Count,
		MinSize: l.cfg.MinSize,
		MaxSize: l.cfg.MaxSize,
		Palette: l.palette,
	}, l.vol)
	l.lastStep = l.now()
	l.state = Running

	l.logger.Debug("simulation started",
		zap.Int("bodies", len(l.bodies)),
		zap.Float64("width", width),
		zap.Float64("height", height))
	l.signal()
	return nil
}

func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) Config() *config.Config { return l.cfg.Clone() }

// Lighting is passed through to renderers; physics never reads it.
func (l *Loop) Lighting() config.LightingConfig { return l.cfg.Lighting }

func (l *Loop) Gate() *VisibilityGate { return l.gate }

// Attach adds a renderer. Renderers attached after disposal are dropped.
func (l *Loop) Attach(r Renderer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Disposed {
		return
	}
	l.renderers = append(l.renderers, r)
}

// Frame is one scheduling opportunity at wall-clock time now. It reports
// whether another frame should be requested.
func (l *Loop) Frame(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Running && l.state != Paused {
		return false
	}
	if !l.shouldRun() {
		l.pauseLocked("hidden")
		return false
	}
	if l.state == Paused {
		l.state = Running
		l.logger.Debug("simulation resumed")
	}

	elapsed := now.Sub(l.lastStep).Seconds()
	if elapsed <= 0 {
		return true
	}
	l.lastStep = now
	if elapsed > l.cfg.MaxDt {
		elapsed = l.cfg.MaxDt
	}

	if l.cfg.FixedStep <= 0 {
		l.stepLocked(elapsed)
		return true
	}

	l.acc += elapsed
	for n := 0; l.acc >= l.cfg.FixedStep && n < l.cfg.MaxSubsteps; n++ {
		l.stepLocked(l.cfg.FixedStep)
		l.acc -= l.cfg.FixedStep
	}
	if l.acc >= l.cfg.FixedStep {
		l.acc = 0
	}
	return true
}

// Step executes exactly one step of length dt (clamped to max_dt) when the
// loop is running. It reports whether a step executed.
func (l *Loop) Step(dt float64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case Disposed:
		return false, dynamo.ErrDisposed
	case Uninitialized:
		return false, dynamo.ErrNotStarted
	case Paused:
		if !l.shouldRun() {
			return false, nil
		}
		l.state = Running
	}
	if !l.shouldRun() {
		l.pauseLocked("hidden")
		return false, nil
	}
	if dt <= 0 {
		return false, nil
	}
	if dt > l.cfg.MaxDt {
		dt = l.cfg.MaxDt
	}
	l.stepLocked(dt)
	return true, nil
}

// Advance runs steps explicit steps of dt, stopping early on cancellation.
func (l *Loop) Advance(ctx context.Context, steps int, dt float64) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := l.Step(dt); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) stepLocked(dt float64) {
	if vp := l.resized.Swap(nil); vp != nil {
		l.vol = vp.Volume
		l.logger.Debug("volume resized", zap.Float64("width", vp.Width), zap.Float64("height", vp.Height))
	}

	l.integ.Step(l.bodies, l.cursor.Target(), dt)
	l.vol.Resolve(l.bodies, l.cfg.WallBounce)
	l.collider.Resolve(l.bodies, l.vol)

	l.steps++
	l.simTime += dt

	snap := takeSnapshot(l.steps, l.simTime, l.vol, l.bodies)
	for _, r := range l.renderers {
		r.Present(snap)
	}
}

func (l *Loop) shouldRun() bool {
	return !l.held.Load() && l.gate.ShouldRun()
}

func (l *Loop) pauseLocked(reason string) {
	if l.state != Running {
		return
	}
	l.state = Paused
	l.acc = 0
	l.logger.Debug("simulation paused", zap.String("reason", reason))
}

// Ready reports whether a frame would step right now.
func (l *Loop) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return (l.state == Running || l.state == Paused) && l.shouldRun()
}

// Pause holds the simulation until Resume. It takes effect before returning.
func (l *Loop) Pause() {
	l.held.Store(true)
	l.mu.Lock()
	l.pauseLocked("host")
	l.mu.Unlock()
}

// Resume releases a host pause. Stepping restarts on the next frame if visible.
func (l *Loop) Resume() {
	l.held.Store(false)
	l.signal()
}

// SetVisible feeds the visibility gate.
func (l *Loop) SetVisible(visible bool) {
	l.gate.Observe(visible)
}

// Resize records new surface dimensions; the volume changes at the next step.
func (l *Loop) Resize(width, height float64) error {
	vp, err := NewViewport(width, height, l.cfg.Camera, l.cfg.Depth)
	if err != nil {
		return err
	}
	l.resized.Store(&vp)
	l.cursor.SetViewport(vp)
	return nil
}

func (l *Loop) PointerMove(px, py float64) { l.cursor.Move(px, py) }

func (l *Loop) Touch(points []Point) { l.cursor.Touch(points) }

func (l *Loop) PointerLeave() { l.cursor.Leave() }

// Dispose stops the simulation for good. When it returns no step will run, no
// snapshot will be published and the pending frame is cancelled.
func (l *Loop) Dispose() {
	l.mu.Lock()
	if l.state == Disposed {
		l.mu.Unlock()
		return
	}
	prev := l.state
	l.state = Disposed
	l.bodies = nil
	l.renderers = nil
	l.mu.Unlock()

	l.sched.Cancel()
	l.quitOnce.Do(func() { close(l.quit) })
	l.logger.Debug("simulation disposed", zap.Stringer("from", prev), zap.Uint64("steps", l.steps))
}

// Done is closed by Dispose.
func (l *Loop) Done() <-chan struct{} { return l.quit }

// Run drives the loop from its scheduler until ctx ends or Dispose is called.
// No frame is requested while the loop is paused.
func (l *Loop) Run(ctx context.Context) error {
	switch l.State() {
	case Disposed:
		return dynamo.ErrDisposed
	case Uninitialized:
		return dynamo.ErrNotStarted
	}

	var next <-chan time.Time
	if l.Ready() {
		next = l.sched.Request()
	}
	for {
		select {
		case <-ctx.Done():
			l.Dispose()
			return ctx.Err()
		case <-l.quit:
			return nil
		case now := <-next:
			next = nil
			if l.Frame(now) && l.State() != Disposed {
				next = l.sched.Request()
			}
		case <-l.wake:
			if next == nil && l.Ready() {
				next = l.sched.Request()
			}
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
