package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rdksim/internal/kinematogram"
	"github.com/san-kum/rdksim/internal/trial"
	"github.com/san-kum/rdksim/internal/viz"
)

const (
	dotStep       = 10
	speedStep     = 5
	coherenceStep = 5
)

// Runner executes fn against the session on the control thread and then
// publishes a fresh FrameMsg carrying fn's error.
type Runner interface {
	Do(fn func(*kinematogram.Session) error)
}

// FrameMsg carries a snapshot of the surface taken on the control thread.
type FrameMsg struct {
	Canvas    string
	Readouts  kinematogram.Readouts
	Phase     trial.Phase
	Direction float64
	Frames    uint64
	Hidden    bool
	Err       error
}

// Model is the bubbletea model. It never touches the session directly;
// every command goes through the Runner.
type Model struct {
	runner Runner
	theme  viz.Theme

	frame     FrameMsg
	manualHid bool
	width     int
}

func NewModel(r Runner, theme viz.Theme) Model {
	return Model{runner: r, theme: theme}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.frame = msg
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.BlurMsg:
		m.post(func(s *kinematogram.Session) { s.SetHidden(true) })
	case tea.FocusMsg:
		if !m.manualHid {
			m.post(func(s *kinematogram.Session) { s.SetHidden(false) })
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.post(func(s *kinematogram.Session) { s.SetDirection(kinematogram.Up) })
	case "down", "j":
		m.post(func(s *kinematogram.Session) { s.SetDirection(kinematogram.Down) })
	case "+", "=":
		m.post(func(s *kinematogram.Session) { s.SetDotCount(s.DotCount() + dotStep) })
	case "-", "_":
		m.post(func(s *kinematogram.Session) { s.SetDotCount(s.DotCount() - dotStep) })
	case "]":
		m.post(func(s *kinematogram.Session) { s.SetSpeed(s.Speed() + speedStep) })
	case "[":
		m.post(func(s *kinematogram.Session) { s.SetSpeed(s.Speed() - speedStep) })
	case ">", ".":
		m.post(func(s *kinematogram.Session) { s.SetCoherence(s.Coherence() + coherenceStep) })
	case "<", ",":
		m.post(func(s *kinematogram.Session) { s.SetCoherence(s.Coherence() - coherenceStep) })
	case "t", "enter":
		m.post(func(s *kinematogram.Session) { s.RunTrial() })
	case "a":
		m.runner.Do(func(s *kinematogram.Session) error { return s.RevealAnswer() })
	case "c":
		m.post(func(s *kinematogram.Session) { s.Trial().Cancel() })
	case "h":
		m.manualHid = !m.manualHid
		hidden := m.manualHid
		m.post(func(s *kinematogram.Session) { s.SetHidden(hidden) })
	case "tab":
		m.theme = viz.NextTheme(m.theme)
	}
	return m, nil
}

func (m Model) post(fn func(*kinematogram.Session)) {
	m.runner.Do(func(s *kinematogram.Session) error {
		fn(s)
		return nil
	})
}

func (m Model) View() string {
	th := m.theme
	title := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	label := lipgloss.NewStyle().Foreground(th.Label).Width(11)
	value := lipgloss.NewStyle().Foreground(th.Value).Bold(true)
	muted := lipgloss.NewStyle().Foreground(th.Muted)
	canvas := lipgloss.NewStyle().
		Foreground(th.Dots).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Frame)

	f := m.frame
	direction := kinematogram.Down.String()
	if f.Direction == kinematogram.Up.Degrees() {
		direction = kinematogram.Up.String()
	}
	status := "running"
	if f.Hidden {
		status = "hidden"
	}

	var panel strings.Builder
	panel.WriteString(title.Render("RDK") + "\n" + muted.Render("random-dot kinematogram") + "\n\n")
	rows := [][2]string{
		{"dots", f.Readouts.Dots},
		{"speed", f.Readouts.Speed},
		{"coherence", f.Readouts.Coherence},
		{"direction", direction},
		{"phase", f.Phase.String()},
		{"frames", fmt.Sprintf("%d", f.Frames)},
		{"surface", status},
	}
	for _, r := range rows {
		panel.WriteString(label.Render(r[0]) + value.Render(r[1]) + "\n")
	}
	if f.Err != nil {
		panel.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(f.Err.Error()) + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvas.Render(strings.TrimRight(f.Canvas, "\n")),
		lipgloss.NewStyle().Padding(1, 3).Render(panel.String()),
	)
	help := muted.Render("j/k down/up  +/- dots  [/] speed  </> coherence  t trial  a answer  c cancel  h hide  tab theme  q quit")
	return body + "\n" + help + "\n"
}
