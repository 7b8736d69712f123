package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Snehit70/voice-cli/internal/feed"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	recStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5050"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))
)

const amplitudeStep = 0.05

type tickMsg time.Time

type console struct {
	srv       *feed.Server
	rate      time.Duration
	amplitude float32
	recording bool
	sent      int
	err       error
	bar       progress.Model
}

func runConsole(srv *feed.Server, rate time.Duration) error {
	m := console{
		srv:       srv,
		rate:      rate,
		amplitude: 0.5,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	_, err := tea.NewProgram(m).Run()
	return err
}

func (m console) tick() tea.Cmd {
	return tea.Tick(m.rate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m console) Init() tea.Cmd {
	return m.tick()
}

func (m console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "r":
			m.recording = !m.recording
			m.srv.SetRecording(m.recording)
		case "up", "k", "+":
			m.amplitude = min(m.amplitude+amplitudeStep, 1)
		case "down", "j", "-":
			m.amplitude = max(m.amplitude-amplitudeStep, 0)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(msg.Width-8, 10)
		return m, nil

	case tickMsg:
		if err := m.srv.SendAmplitude(m.amplitude); err != nil {
			m.err = err
		} else if m.srv.Clients() > 0 {
			m.sent++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m console) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("voice-cli feed") + "  " + idleStyle.Render(m.srv.Path()) + "\n\n")

	if m.recording {
		b.WriteString(recStyle.Render("● recording"))
	} else {
		b.WriteString(idleStyle.Render("○ idle"))
	}
	fmt.Fprintf(&b, "   amplitude %.2f   overlays %d   sent %d\n\n", m.amplitude, m.srv.Clients(), m.sent)
	b.WriteString("  " + m.bar.ViewAs(float64(m.amplitude)) + "\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("broadcast: "+m.err.Error()) + "\n\n")
	}
	b.WriteString(helpStyle.Render("space: toggle recording • ↑/↓: amplitude • q: quit") + "\n")
	return b.String()
}
