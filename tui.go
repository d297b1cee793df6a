package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jcarrus/typr/session"
)

// TUI message types
type sessionStateMsg session.State
type transcriptMsg string
type sessionErrMsg struct{ err error }
type tickMsg time.Time

// tuiSink forwards machine events into the bubbletea program.
type tuiSink struct {
	p *tea.Program
}

func (s tuiSink) StateChanged(st session.State) { s.p.Send(sessionStateMsg(st)) }
func (s tuiSink) TranscriptReady(text string)   { s.p.Send(transcriptMsg(text)) }
func (s tuiSink) SessionError(err error)        { s.p.Send(sessionErrMsg{err}) }

var (
	styleRec    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleBusy   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleText   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleErr    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleFaint  = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	spinnerDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

type statusInit struct {
	mode    string
	engine  string
	version string
}

type statusModel struct {
	statusInit

	state          session.State
	recordingSince time.Time
	frame          int
	count          int
	lastTranscript string
	lastErr        error
	width          int
}

func newStatusProgram(init statusInit) *tea.Program {
	return tea.NewProgram(statusModel{statusInit: init}, tea.WithAltScreen())
}

func statusTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m statusModel) Init() tea.Cmd {
	return statusTick()
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tickMsg:
		m.frame++
		return m, statusTick()

	case sessionStateMsg:
		st := session.State(msg)
		if st == session.Recording && m.state != session.Recording {
			m.recordingSince = time.Now()
		}
		m.state = st

	case transcriptMsg:
		m.count++
		m.lastTranscript = string(msg)
		m.lastErr = nil

	case sessionErrMsg:
		m.lastErr = msg.err
	}
	return m, nil
}

func (m statusModel) statusLine() string {
	switch m.state {
	case session.Recording:
		return styleRec.Render(fmt.Sprintf("● REC %.1fs", time.Since(m.recordingSince).Seconds()))
	case session.Stopping, session.Transcribing, session.Rewriting, session.Typing:
		spin := spinnerDots[m.frame%len(spinnerDots)]
		return styleBusy.Render(fmt.Sprintf("%s %s", spin, m.state))
	case session.Cancelled:
		return styleIdle.Render("○ cancelled")
	case session.Failed:
		return styleErr.Render("✗ failed")
	default:
		return styleIdle.Render("○ STANDBY")
	}
}

func (m statusModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString("\n  " + m.statusLine() + "\n")
	b.WriteString("  " + styleIdle.Render(fmt.Sprintf("[%s | %s]", m.mode, m.engine)) + "\n\n")

	wrapWidth := m.width - 4
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	if m.lastErr != nil {
		b.WriteString("  " + styleErr.Render("error: "+m.lastErr.Error()) + "\n\n")
	}
	if m.lastTranscript != "" {
		b.WriteString("  " + styleTitle.Render(fmt.Sprintf("Last transcription (#%d)", m.count)) + "\n\n")
		for _, line := range wrapText(m.lastTranscript, wrapWidth) {
			b.WriteString("  " + styleText.Render(line) + "\n")
		}
		b.WriteString("\n")
	} else if m.lastErr == nil {
		b.WriteString("  " + styleIdle.Render("No transcriptions yet") + "\n\n")
	}

	help := "double-tap shift and hold to record"
	if m.mode == "chord" {
		help = "press the chord to start, again to stop"
	}
	b.WriteString("  " + styleFaint.Render(help) + "\n")
	b.WriteString("  " + styleFaint.Render("typr "+m.version+" · q to quit") + "\n")
	return b.String()
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		for len(para) > width {
			splitAt := width
			for i := width; i > 0; i-- {
				if para[i] == ' ' {
					splitAt = i
					break
				}
			}
			lines = append(lines, para[:splitAt])
			para = strings.TrimLeft(para[splitAt:], " ")
		}
		lines = append(lines, para)
	}
	return lines
}
