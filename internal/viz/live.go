package viz

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/sim"
	"go.uber.org/zap"
)

const (
	defaultTermWidth  = 80
	defaultTermHeight = 24
	historyCapacity   = 120
)

// Controller is the host-facing side of a mounted simulation.
type Controller interface {
	PointerMove(px, py float64)
	PointerLeave()
	Resize(width, height float64) error
	SetVisible(visible bool)
	Pause()
	Resume()
	Dispose()
	State() sim.State
}

// Mounter creates, starts and drives a simulation on a width×height surface,
// presenting snapshots to r.
type Mounter func(cfg *config.Config, width, height float64, r sim.Renderer) (Controller, error)

// Latest holds the most recent snapshot. The stepping goroutine stores, the UI
// loads on its own tick.
type Latest struct {
	p atomic.Pointer[sim.Snapshot]
}

func (l *Latest) Present(s sim.Snapshot) { l.p.Store(&s) }

func (l *Latest) Load() (sim.Snapshot, bool) {
	s := l.p.Load()
	if s == nil {
		return sim.Snapshot{}, false
	}
	return *s, true
}

type frameMsg time.Time

// ReloadMsg asks the view to replace its simulation with one built from Config.
type ReloadMsg struct {
	Config *config.Config
}

type Model struct {
	ctrl   Controller
	mount  Mounter
	slot   *Latest
	cfg    *config.Config
	logger *zap.Logger

	canvas   *Canvas
	shader   Shader
	theme    Theme
	title    string
	interval time.Duration

	snap           sim.Snapshot
	energy         *metrics.KineticEnergy
	energyHistory  []float64
	overlapHistory []float64

	paused   bool
	hovering bool
	showHelp bool
	status   string
}

type LiveOptions struct {
	Theme     string
	Title     string
	Logger    *zap.Logger
	WatchPath string
}

// NewModel mounts the first simulation sized for a default terminal. The real
// size arrives with the first WindowSizeMsg.
func NewModel(cfg *config.Config, mount Mounter, opts LiveOptions) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "ballpit"
	}
	cols, rows := CanvasSize(defaultTermWidth, defaultTermHeight)

	m := Model{
		mount:    mount,
		cfg:      cfg,
		logger:   opts.Logger,
		canvas:   NewCanvas(cols, rows),
		shader:   NewShader(cfg.Lighting),
		theme:    GetTheme(opts.Theme),
		title:    opts.Title,
		interval: time.Second / time.Duration(max(cfg.FPS, 1)),
		energy:   metrics.NewKineticEnergy(),
	}
	if err := m.remount(cfg); err != nil {
		return Model{}, err
	}
	return m, nil
}

// CanvasSize is the braille grid that fits a terminal next to the stats panel.
func CanvasSize(termWidth, termHeight int) (cols, rows int) {
	cols = max(termWidth-statsWidth-2*canvasPadX, 10)
	rows = max(termHeight-2*canvasPadY, 5)
	return cols, rows
}

func (m Model) surface() (float64, float64) {
	return float64(m.canvas.SubWidth()), float64(m.canvas.SubHeight())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Close disposes the current simulation.
func (m Model) Close() {
	if m.ctrl != nil {
		m.ctrl.Dispose()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Close()
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
			if m.paused {
				m.ctrl.Pause()
			} else {
				m.ctrl.Resume()
			}
		case "r":
			if err := m.remount(m.cfg); err != nil {
				m.status = err.Error()
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		cols, rows := CanvasSize(msg.Width, msg.Height)
		if cols != m.canvas.Width || rows != m.canvas.Height {
			m.canvas = NewCanvas(cols, rows)
			w, h := m.surface()
			if err := m.ctrl.Resize(w, h); err != nil {
				m.status = err.Error()
			}
			m.draw()
		}

	case tea.MouseMsg:
		col, row := msg.X-canvasPadX, msg.Y-canvasPadY
		if col >= 0 && row >= 0 && col < m.canvas.Width && row < m.canvas.Height {
			// centre of the cell in sub-pixels
			m.ctrl.PointerMove(float64(col*2)+1, float64(row*4)+2)
			m.hovering = true
		} else if m.hovering {
			m.ctrl.PointerLeave()
			m.hovering = false
		}

	case tea.FocusMsg:
		m.ctrl.SetVisible(true)

	case tea.BlurMsg:
		m.ctrl.SetVisible(false)

	case ReloadMsg:
		if err := m.remount(msg.Config); err != nil {
			m.status = err.Error()
			m.logger.Warn("reload failed", zap.Error(err))
		}

	case frameMsg:
		if snap, ok := m.slot.Load(); ok && snap.Step != m.snap.Step {
			m.observe(snap)
			m.draw()
		}
		return m, m.tick()
	}
	return m, nil
}

// remount replaces the running simulation. On failure the old one keeps running.
func (m *Model) remount(cfg *config.Config) error {
	slot := &Latest{}
	w, h := m.surface()
	ctrl, err := m.mount(cfg, w, h, slot)
	if err != nil {
		return err
	}
	if m.ctrl != nil {
		m.ctrl.Dispose()
	}

	m.ctrl = ctrl
	m.slot = slot
	m.cfg = cfg
	m.shader = NewShader(cfg.Lighting)
	m.interval = time.Second / time.Duration(max(cfg.FPS, 1))
	m.snap = sim.Snapshot{}
	m.energy.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.overlapHistory = m.overlapHistory[:0]
	m.paused = false
	m.hovering = false
	m.status = ""
	m.canvas.Clear()
	return nil
}

func (m *Model) observe(s sim.Snapshot) {
	m.snap = s
	m.energy.Observe(s)
	m.energyHistory = appendCapped(m.energyHistory, m.energy.Last())

	overlap := metrics.NewPenetration()
	overlap.Observe(s)
	m.overlapHistory = appendCapped(m.overlapHistory, overlap.Value())
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) draw() {
	DrawSnapshot(m.canvas, m.snap, m.cfg.Camera.Distance, m.shader)
}

func (m Model) statusLine() string {
	switch m.ctrl.State() {
	case sim.Running:
		return lipgloss.NewStyle().Bold(true).Foreground(m.theme.Running).Render("RUNNING")
	case sim.Paused:
		if m.paused {
			return lipgloss.NewStyle().Bold(true).Foreground(m.theme.Paused).Render("PAUSED")
		}
		return lipgloss.NewStyle().Bold(true).Foreground(m.theme.Paused).Render("HIDDEN")
	case sim.Disposed:
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("STOPPED")
	}
	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("STARTING")
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())

	t := m.theme
	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), t.Title, t.TitleTo) + "\n")
	s.WriteString(m.statusLine() + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(statsWidth-12),
			asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Foreground(t.Graph).Render(chart) + "\n")
	} else {
		s.WriteString("\n")
	}

	energy := 0.0
	if n := len(m.energyHistory); n > 0 {
		energy = m.energyHistory[n-1]
	}
	s.WriteString(t.label("Step") + t.value(fmt.Sprintf("%d", m.snap.Step)) + "\n")
	s.WriteString(t.label("Time") + t.value(fmt.Sprintf("%.2fs", m.snap.Time)) + "\n")
	s.WriteString(t.label("Bodies") + t.value(fmt.Sprintf("%d", len(m.snap.Bodies))) + "\n")
	s.WriteString(t.label("Energy") + t.value(fmt.Sprintf("%.3f", energy)) + "\n")
	s.WriteString(t.label("Overlap") + SparklineChart(m.overlapHistory, statsWidth-18, t.Accent) + "\n")
	cursor := "off"
	if m.cfg.FollowCursor {
		cursor = "idle"
		if m.hovering {
			cursor = "tracking"
		}
	}
	s.WriteString(t.label("Cursor") + t.value(cursor) + "\n")
	s.WriteString(t.label("Theme") + t.value(t.Name) + "\n")
	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Paused).Render(m.status) + "\n")
	}
	s.WriteString("\n" + Separator(statsWidth-6, t.Muted))
	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit\nT:Theme  ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space/P  - Pause/Resume simulation  ║
║  R        - Restart with new bodies  ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
║  Mouse    - Attract bodies           ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
