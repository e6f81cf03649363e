package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rosu-bridge/calc"
	"github.com/wippyai/rosu-bridge/wire"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historySize = 8

type gradualModel struct {
	err      error
	session  *session
	filename string
	last     wire.PerformanceResult
	history  []string
	input    textinput.Model
}

func newGradualModel(s *session, filename string) *gradualModel {
	ti := textinput.New()
	ti.Placeholder = "3 = 300, 1 = 100, 5 = 50, x = miss"
	ti.Prompt = "judgements: "
	ti.Width = 40
	ti.Focus()
	return &gradualModel{session: s, filename: filename, input: ti}
}

func (m *gradualModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *gradualModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.feed(m.input.Value())
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// feed advances the session once per judgement in line. An empty line is
// a single 300.
func (m *gradualModel) feed(line string) {
	m.err = nil
	line = strings.TrimSpace(line)
	if line == "" {
		line = string(judgeGreat)
	}
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' {
			continue
		}
		j := judgement(line[i])
		if !j.valid() {
			m.err = fmt.Errorf("unknown judgement %q", line[i])
			return
		}
		p, ok, err := m.session.advance(j)
		if err != nil {
			m.err = err
			return
		}
		if !ok {
			return
		}
		m.last = p
		m.record(j, p)
	}
}

func (m *gradualModel) record(j judgement, p wire.PerformanceResult) {
	entry := fmt.Sprintf("#%-5d %-4s %8s pp  %5s*",
		m.session.track.steps, judgementLabel(j), formatFloat(p.PP), formatFloat(p.Stars))
	m.history = append(m.history, entry)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func judgementLabel(j judgement) string {
	switch j {
	case judgeGood:
		return "100"
	case judgeMeh:
		return "50"
	case judgeMiss:
		return "miss"
	default:
		return "300"
	}
}

func (m *gradualModel) View() string {
	var b strings.Builder

	h := m.session.header
	b.WriteString(titleStyle.Render("Gradual"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %s %s\n\n", h.Mode, calc.ModString(h.Mods)))

	st := m.session.track.state
	b.WriteString(labelStyle.Render("objects "))
	b.WriteString(fmt.Sprintf("%d", m.session.track.steps))
	b.WriteString(labelStyle.Render("  combo "))
	b.WriteString(fmt.Sprintf("%dx", st.MaxCombo))
	b.WriteString(labelStyle.Render("  hits "))
	b.WriteString(fmt.Sprintf("%d/%d/%d/%d\n", st.N300, st.N100, st.N50, st.Misses))
	b.WriteString(resultStyle.Render(fmt.Sprintf("%s pp  %s stars", formatFloat(m.last.PP), formatFloat(m.last.Stars))))
	b.WriteString("\n\n")

	for _, line := range m.history {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.session.done {
		b.WriteString(resultStyle.Render("All objects processed."))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc quit"))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter advance • esc quit"))
	return b.String()
}
