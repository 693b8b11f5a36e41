package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ballpit/internal/config"
)

var presetInfo = map[string]string{
	"default":       "the classic pit",
	"zero-g":        "floating, lossless walls",
	"heavy":         "strong gravity, dull bounce",
	"sparse":        "a few small balls",
	"crowd":         "packed to the brim",
	"mono":          "greyscale, no cursor pull",
	"deterministic": "fixed seed and step",
}

var (
	pickTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickMarker   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickActiveD  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Picker is a menu over the built-in presets.
type Picker struct {
	cursor   int
	presets  []string
	selected string
}

func NewPicker() Picker {
	return Picker{presets: config.ListPresets()}
}

// Selected is the chosen preset, empty when the user quit.
func (m Picker) Selected() string { return m.selected }

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m Picker) View() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("BALLPIT") + "\n    " + pickSub.Render("pick a preset") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickMarker.Render("▸"), pickActive.Render(fmt.Sprintf("%-14s", name)), pickActiveD.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", pickInactive.Render(fmt.Sprintf("  %-14s", name)), pickInactive.Render(desc)))
		}
	}
	b.WriteString("\n    " + pickKey.Render("j/k") + pickSub.Render(" navigate  ") + pickKey.Render("enter") + pickSub.Render(" select  ") + pickKey.Render("q") + pickSub.Render(" quit") + "\n")
	return b.String()
}

// RunPicker shows the preset menu and returns the choice, or "" if cancelled.
func RunPicker() (string, error) {
	final, err := tea.NewProgram(NewPicker(), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	return final.(Picker).Selected(), nil
}
